package tagger

import (
	"context"
	"io"

	"github.com/rapidphoto/uploader-go/internal/port"
)

// NoopTagger produces no tags. Deployments without a tagging backend wire
// this in so the pipeline's tagging step stays a cheap pass-through.
type NoopTagger struct{}

var _ port.Tagger = (*NoopTagger)(nil)

func NewNoop() *NoopTagger { return &NoopTagger{} }

func (t *NoopTagger) GenerateTags(ctx context.Context, r io.Reader) ([]string, error) {
	return nil, nil
}
