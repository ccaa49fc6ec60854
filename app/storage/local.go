package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalPhotoStore writes photos to a directory that the HTTP server exposes under
// publicBaseURL.
type LocalPhotoStore struct {
	dir           string
	publicBaseURL string
}

func NewLocalPhotoStore(dir, publicBaseURL string) (*LocalPhotoStore, error) {
	if dir == "" {
		return nil, errors.New("photo directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "/photos"
	}
	return &LocalPhotoStore{dir: dir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *LocalPhotoStore) Dir() string {
	return s.dir
}

func (s *LocalPhotoStore) Upload(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create photo %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write photo %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("close photo %s: %w", name, err)
	}

	return s.publicBaseURL + "/" + name, nil
}

func (s *LocalPhotoStore) Delete(_ context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete photo %s: %w", name, err)
	}
	return nil
}
