// Package storage persists uploaded photos on local disk or in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"contacts/config"
	domainerrors "contacts/internal/domain/errors"
	"contacts/internal/domain/service"
	"contacts/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// NewPhotoStorage returns the configured backend behind size and type checks.
func NewPhotoStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.PhotoStorage, error) {
	var backend service.PhotoStorage
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		s3Backend, err := NewS3Storage(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		backend = s3Backend
	case config.StorageDriverLocal, "":
		backend = NewLocalStorage(cfg.Storage.Local.Dir, strings.TrimRight(cfg.App.Domain, "/")+LocalURLPrefix)
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	logger.Info("Photo storage initialized",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("max_size", util.FormatBytes(cfg.Storage.MaxPhotoSize)),
	)

	return &validatingStorage{next: backend, maxSize: cfg.Storage.MaxPhotoSize}, nil
}

// validatingStorage buffers the upload, enforces the size limit and sniffs the real content type.
type validatingStorage struct {
	next    service.PhotoStorage
	maxSize int64
}

func (s *validatingStorage) Save(ctx context.Context, folder string, upload *service.PhotoUpload) (string, error) {
	if upload.Size > s.maxSize {
		return "", domainerrors.ErrPhotoTooLarge.WithDetails(fmt.Sprintf("max %s", util.FormatBytes(s.maxSize)))
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, s.maxSize+1))
	if err != nil {
		return "", errors.Wrap(err, "failed to read upload")
	}
	if int64(len(data)) > s.maxSize {
		return "", domainerrors.ErrPhotoTooLarge.WithDetails(fmt.Sprintf("max %s", util.FormatBytes(s.maxSize)))
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), allowedPhotoTypes...) {
		return "", domainerrors.ErrPhotoTypeUnsupported.WithDetails(mime.String())
	}

	url, err := s.next.Save(ctx, folder, &service.PhotoUpload{
		Filename:    objectKey(folder, mime.Extension()),
		ContentType: mime.String(),
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPhotoUploadFailed, err.Error())
	}

	return url, nil
}

// objectKey builds folder/YYYY/MM/<uuid><ext>.
func objectKey(folder, ext string) string {
	now := time.Now().UTC()

	return fmt.Sprintf("%s/%04d/%02d/%s%s", folder, now.Year(), now.Month(), uuid.NewString(), ext)
}
