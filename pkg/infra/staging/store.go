package staging

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Store stages uploaded payloads as files on local disk
type Store struct {
	dir string
}

// New creates a Store writing into dir. An empty dir selects os.TempDir()
// at the time each file is created.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// With writes r to a new uniquely named file ending in ext, calls fn with
// its path and removes the file on every exit path, including a panic in fn.
func (s *Store) With(ctx context.Context, ext string, r io.Reader, fn func(ctx context.Context, path string) error) error {
	logger := ctxlog.From(ctx)

	path, err := s.stage(ctx, ext, r)
	if path != "" {
		defer func() {
			if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
				logger.Warn("Failed to remove staged file",
					"path", path,
					"error", removeErr,
				)
				return
			}
			logger.Debug("Removed staged file", "path", path)
		}()
	}
	if err != nil {
		return err
	}

	return fn(ctx, path)
}

// stage returns the created path even when writing fails, so that the
// caller can remove the partial file.
func (s *Store) stage(ctx context.Context, ext string, r io.Reader) (string, error) {
	dir := s.dir
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, "doclingo-"+uuid.NewString()+ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create staged file", goerr.V("path", path))
	}

	size, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return path, goerr.Wrap(err, "failed to write staged file", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return path, goerr.Wrap(err, "failed to close staged file", goerr.V("path", path))
	}

	ctxlog.From(ctx).Debug("Staged upload",
		"path", path,
		"size", humanize.Bytes(uint64(size)),
	)

	return path, nil
}
