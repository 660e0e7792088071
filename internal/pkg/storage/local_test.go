package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:4003/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	path, err := s.Upload(ctx, strings.NewReader("medical note"), "leave_attachments/emp-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "leave_attachments/emp-1.pdf", path)
	assert.Equal(t, "http://localhost:4003/uploads/leave_attachments/emp-1.pdf", s.URL(path))

	body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, "medical note", string(body))

	require.NoError(t, s.Delete(ctx, path))
	ok, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, path))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "../outside.txt")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorIs(t, s.Delete(context.Background(), "../../etc/passwd"), ErrInvalidPath)
}
