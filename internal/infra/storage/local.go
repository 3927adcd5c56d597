package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"contacts/internal/domain/service"

	"github.com/pkg/errors"
)

// LocalURLPrefix is the route under which the local upload directory is served.
const LocalURLPrefix = "/uploads"

type localStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage writes photos under dir and returns URLs rooted at baseURL.
func NewLocalStorage(dir, baseURL string) service.PhotoStorage {
	return &localStorage{dir: dir, baseURL: baseURL}
}

// Save expects upload.Filename to already be a generated object key.
func (s *localStorage) Save(ctx context.Context, _ string, upload *service.PhotoUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(upload.Filename))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create upload directory")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "failed to create upload file")
	}

	if _, err := io.Copy(f, upload.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return "", errors.Wrap(err, "failed to write upload file")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close upload file")
	}

	return s.baseURL + "/" + upload.Filename, nil
}
