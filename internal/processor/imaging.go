package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rapidphoto/uploader-go/internal/port"

	// decode-only support for webp sources saved with a wrong extension
	_ "golang.org/x/image/webp"
)

// ImagingProcessor implements the transform pipeline on top of
// disintegration/imaging. Output always matches the photo's declared content
// type; there is no cross-format conversion.
type ImagingProcessor struct{}

// compile-time check: *ImagingProcessor must satisfy port.ImageProcessor
var _ port.ImageProcessor = (*ImagingProcessor)(nil)

func NewImagingProcessor() *ImagingProcessor {
	return &ImagingProcessor{}
}

// Compress re-encodes the image at the given quality without resizing it.
// Quality only affects JPEG output; PNG and GIF re-encode losslessly.
func (p *ImagingProcessor) Compress(contentType string, r io.Reader, quality float64) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return encode(img, contentType, quality)
}

// Thumbnail bounds the longest edge to maxSize, preserving aspect ratio.
// Images already within bounds are still re-encoded so the thumbnail object
// always exists.
func (p *ImagingProcessor) Thumbnail(contentType string, r io.Reader, maxSize int, quality float64) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	return encode(thumb, contentType, quality)
}

func encode(img image.Image, contentType string, quality float64) ([]byte, error) {
	format, err := formatFor(contentType)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	opts := []imaging.EncodeOption{}
	if format == imaging.JPEG {
		opts = append(opts, imaging.JPEGQuality(int(quality*100)))
	}
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFor(contentType string) (imaging.Format, error) {
	switch contentType {
	case "image/jpeg":
		return imaging.JPEG, nil
	case "image/png":
		return imaging.PNG, nil
	case "image/gif":
		return imaging.GIF, nil
	default:
		return 0, fmt.Errorf("unsupported content type %q", contentType)
	}
}
