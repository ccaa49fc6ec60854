package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidPhotoName = errors.New("invalid photo file name")

// PhotoStore keeps reading photos and hands back a URL browsers can resolve.
type PhotoStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
}

// NewPhotoFileName builds a unique object name that keeps the upload's extension.
func NewPhotoFileName(originalName string, now time.Time) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(originalName), "."))
	if ext == "" || !isSafeExtension(ext) {
		ext = "jpg"
	}
	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), uuid.NewString(), ext)
}

// FileNameFromURL returns the last path segment of a photo URL.
func FileNameFromURL(photoURL string) string {
	photoURL = strings.TrimSpace(photoURL)
	if photoURL == "" {
		return ""
	}
	if parsed, err := url.Parse(photoURL); err == nil && parsed.Path != "" {
		photoURL = parsed.Path
	}
	name := path.Base(photoURL)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrInvalidPhotoName
	}
	return nil
}

func isSafeExtension(ext string) bool {
	if len(ext) > 5 {
		return false
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
