package service

import (
	"context"
	"io"
)

// PhotoUpload is an image to be stored for a contact or avatar.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PhotoStorage stores uploaded images and returns their public URL.
type PhotoStorage interface {
	Save(ctx context.Context, folder string, upload *PhotoUpload) (string, error)
}
