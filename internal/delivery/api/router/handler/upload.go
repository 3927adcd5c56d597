package handler

import (
	"io"
	"net/http"

	"contacts/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// photoFromForm opens the multipart file in field. A request without that file yields a nil upload.
// The returned closer must be called once the upload has been consumed.
func photoFromForm(c echo.Context, field string) (*service.PhotoUpload, io.Closer, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.WithStack(echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form"))
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open uploaded file")
	}

	return &service.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	}, file, nil
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
