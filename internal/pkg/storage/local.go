package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps files under a directory that the router serves statically.
type LocalStorage struct {
	basePath string
	baseURL  string // e.g. "http://localhost:4003/uploads"
}

func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// resolve maps a relative path into basePath, rejecting anything that escapes it.
func (s *LocalStorage) resolve(path string) (string, string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(path, "/")))
	full := filepath.Join(s.basePath, clean)
	rel, err := filepath.Rel(s.basePath, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return filepath.ToSlash(clean), full, nil
}

func (s *LocalStorage) Upload(ctx context.Context, file io.Reader, path string) (string, error) {
	clean, full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return clean, nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	_, full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(filepath.Clean(path)), "/")
}

func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, full, err := s.resolve(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
