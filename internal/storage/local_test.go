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

func TestLocalStorage_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Put(ctx, "news/1/cover.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/news/1/cover.png", url)

	b, err := os.ReadFile(filepath.Join(dir, "news", "1", "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(b))

	require.NoError(t, s.Delete(ctx, "news/1/cover.png"))
	require.NoError(t, s.Delete(ctx, "news/1/cover.png"))
}

func TestLocalStorage_KeyCannotEscapeRoot(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "root"), "/uploads")
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "../../evil.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/evil.txt", url)
	assert.FileExists(t, filepath.Join(dir, "root", "evil.txt"))

	_, err = s.Put(context.Background(), "  ", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
