package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

type FileStorage interface {
	// Upload stores file at path and returns the cleaned path.
	Upload(ctx context.Context, file io.Reader, path string) (string, error)
	// Delete is a no-op for a missing file.
	Delete(ctx context.Context, path string) error
	URL(path string) string
	Exists(ctx context.Context, path string) (bool, error)
}
