// Package report contains the passenger report data model: the mutable Draft
// a rider fills in, the immutable Record produced on submission, and the
// Builder that turns one into the other.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PhotoSource records how a photo entered the draft.
type PhotoSource string

const (
	PhotoSourceCamera  PhotoSource = "camera"
	PhotoSourceGallery PhotoSource = "gallery"
)

// Photo is an opaque encoded-image artifact plus acquisition metadata.
// Index 0 in a draft is the "main" photo.
type Photo struct {
	Data       []byte
	MimeType   string
	Source     PhotoSource
	CapturedAt time.Time
}

// PhotoFromFile reads an image file selected from the device gallery.
// The mime type is derived from the file extension.
func PhotoFromFile(path string, now time.Time) (Photo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Photo{}, fmt.Errorf("error reading gallery image: %w", err)
	}
	if len(data) == 0 {
		return Photo{}, fmt.Errorf("gallery image %s is empty", path)
	}
	return Photo{
		Data:       data,
		MimeType:   mimeTypeForExtension(filepath.Ext(path)),
		Source:     PhotoSourceGallery,
		CapturedAt: now,
	}, nil
}

func mimeTypeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
