package api

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AllowedExtensions lists the image types the backend accepts.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".webp"}

// ValidateImage checks name and size against the upload limits.
func ValidateImage(name string, size, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, a := range AllowedExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedFileType, name, strings.Join(AllowedExtensions, " "))
	}

	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d bytes", ErrFileTooLarge, size, maxBytes)
	}
	return nil
}

// MimeType guesses the content type from the extension.
func MimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".bmp":
		return "image/bmp"
	case ".tiff":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
