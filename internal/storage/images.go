// Package storage manages uploaded recipe images on the local
// filesystem. Files live under <root>/recipe/ and are named by a random
// identifier plus the upload's extension, so a stored path never reuses
// client-supplied filenames and collisions are not possible.
package storage

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding

	"github.com/google/uuid"
)

// ErrNotImage is returned when uploaded bytes do not decode as a
// supported image format.
var ErrNotImage = errors.New("not a valid image")

const recipeImageDir = "recipe"

// ImageStore saves and removes image files below a media root.
type ImageStore struct {
	Root string
}

func NewImageStore(root string) *ImageStore { return &ImageStore{Root: root} }

// SaveRecipeImage validates that data decodes as an image and writes it
// to <root>/recipe/<uuid><ext>, returning the media-relative path. The
// extension comes from the uploaded filename; when that is missing or
// unusable, the detected format decides.
func (s *ImageStore) SaveRecipeImage(data []byte, originalName string) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		ext = "." + format
		if format == "jpeg" {
			ext = ".jpg"
		}
	}

	rel := filepath.Join(recipeImageDir, uuid.NewString()+ext)
	abs := filepath.Join(s.Root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}

// Remove deletes a previously stored image. Empty paths and already
// missing files are not errors: deletion only needs the file gone.
func (s *ImageStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
