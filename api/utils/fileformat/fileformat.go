package fileformat

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UniqueFormat replaces the base name of an upload with a random one,
// keeping the lower-cased extension.
func UniqueFormat(fn string) string {
	ext := strings.ToLower(filepath.Ext(fn))
	return uuid.NewString() + ext
}

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageExtension returns the extension for a sniffed image content type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageTypes[contentType]
	return ext, ok
}
