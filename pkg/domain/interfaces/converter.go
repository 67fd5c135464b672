package interfaces

import (
	"context"
	"io"

	"github.com/m-mizutani/doclingo/pkg/domain/model"
)

// Converter wraps an external document conversion engine. A Converter is
// constructed once at startup and shared read-only by every request.
type Converter interface {
	// Convert parses the source document and returns all of its renderings
	Convert(ctx context.Context, src model.Source) (*model.Document, error)

	// Name returns the backend name for logging
	Name() string
}

// Stager writes uploads to transient files owned by a single caller
type Stager interface {
	// With stages r into a new file with extension ext, calls fn with its
	// path and removes the file before returning, whatever fn returns.
	With(ctx context.Context, ext string, r io.Reader, fn func(ctx context.Context, path string) error) error
}
