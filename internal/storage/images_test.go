package storage

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveRecipeImage(t *testing.T) {
	s := NewImageStore(t.TempDir())

	rel, err := s.SaveRecipeImage(pngBytes(t), "photo.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "recipe"+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(rel, ".png"))
	assert.NotContains(t, rel, "photo", "original filename must not be reused")

	_, err = os.Stat(filepath.Join(s.Root, rel))
	require.NoError(t, err)
}

func TestSaveRecipeImageUniquePaths(t *testing.T) {
	s := NewImageStore(t.TempDir())
	a, err := s.SaveRecipeImage(pngBytes(t), "same.png")
	require.NoError(t, err)
	b, err := s.SaveRecipeImage(pngBytes(t), "same.png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSaveRecipeImageExtensionFallback(t *testing.T) {
	s := NewImageStore(t.TempDir())
	rel, err := s.SaveRecipeImage(pngBytes(t), "upload.bin")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rel, ".png"), "detected format decides the extension")
}

func TestSaveRecipeImageRejectsNonImage(t *testing.T) {
	s := NewImageStore(t.TempDir())
	_, err := s.SaveRecipeImage([]byte("definitely not an image"), "notes.txt")
	require.ErrorIs(t, err, ErrNotImage)
}

func TestRemove(t *testing.T) {
	s := NewImageStore(t.TempDir())
	rel, err := s.SaveRecipeImage(pngBytes(t), "x.png")
	require.NoError(t, err)

	require.NoError(t, s.Remove(rel))
	_, err = os.Stat(filepath.Join(s.Root, rel))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(rel), "removing a missing file is not an error")
	assert.NoError(t, s.Remove(""), "empty path is a no-op")
}
