package mock

import (
	"context"
	"io"
)

// ImageProcessor implements image transforms for tests.
type ImageProcessor struct {
	CompressOut  []byte
	CompressErr  error
	ThumbnailOut []byte
	ThumbnailErr error

	CompressCalled  bool
	ThumbnailCalled bool
	GotContentType  string
	GotQuality      float64
	GotMaxSize      int
	GotThumbQuality float64
}

func (m *ImageProcessor) Compress(contentType string, r io.Reader, quality float64) ([]byte, error) {
	m.CompressCalled = true
	m.GotContentType = contentType
	m.GotQuality = quality
	if m.CompressErr != nil {
		return nil, m.CompressErr
	}
	if m.CompressOut != nil {
		return m.CompressOut, nil
	}
	return []byte("compressed"), nil
}

func (m *ImageProcessor) Thumbnail(contentType string, r io.Reader, maxSize int, quality float64) ([]byte, error) {
	m.ThumbnailCalled = true
	m.GotMaxSize = maxSize
	m.GotThumbQuality = quality
	if m.ThumbnailErr != nil {
		return nil, m.ThumbnailErr
	}
	if m.ThumbnailOut != nil {
		return m.ThumbnailOut, nil
	}
	return []byte("thumb"), nil
}

// Tagger implements the tagging capability for tests.
type Tagger struct {
	TagsOut []string
	TagsErr error

	Called bool
}

func (m *Tagger) GenerateTags(ctx context.Context, r io.Reader) ([]string, error) {
	m.Called = true
	if m.TagsErr != nil {
		return nil, m.TagsErr
	}
	return m.TagsOut, nil
}
