// Package capture writes rendered frames to disk.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnknownFormat = errors.New("unknown image format")

// Ext maps a format name to its file extension (with dot).
func Ext(format string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png":
		return ".png", nil
	case "bmp":
		return ".bmp", nil
	case "tif", "tiff":
		return ".tiff", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// NewPath returns dir/capture-<uuid>.<ext>. Names never collide between runs.
func NewPath(dir, format string) (string, error) {
	ext, err := Ext(format)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "capture-"+uuid.NewString()+ext), nil
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	ext, err := Ext(format)
	if err != nil {
		return err
	}
	switch ext {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
}

// Save writes img to path, choosing the encoder from the extension. The
// parent directory is created if needed.
func Save(img image.Image, path string) (err error) {
	format := filepath.Ext(path)
	if _, err := Ext(format); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("save %s: %w", path, cerr)
		}
	}()
	if err := Encode(f, img, format); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
