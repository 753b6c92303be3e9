package port

import (
	"context"
	"io"
)

// ImageProcessor defines the image transform operations the pipeline delegates
// to: lossy re-encoding at a quality factor and thumbnail derivation.
type ImageProcessor interface {
	// Compress re-encodes the image at the given quality (0..1), preserving
	// its dimensions and content type.
	Compress(contentType string, r io.Reader, quality float64) ([]byte, error)
	// Thumbnail derives a longest-edge-bounded thumbnail, aspect preserved,
	// re-encoded at the given quality (0..1).
	Thumbnail(contentType string, r io.Reader, maxSize int, quality float64) ([]byte, error)
}

// Tagger is an optional capability that derives labels from image bytes.
// Components hold it as a nil-able dependency: absent means tagging is off.
type Tagger interface {
	GenerateTags(ctx context.Context, r io.Reader) ([]string, error)
}
