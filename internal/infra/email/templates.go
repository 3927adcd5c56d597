package email

import (
	"bytes"
	"embed"
	"html/template"

	"contacts/internal/domain/service"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type htmlTemplates struct{}

// NewTemplates returns the embedded HTML email templates.
func NewTemplates() service.MailTemplates {
	return htmlTemplates{}
}

// ResetPassword renders the password reset email body.
func (htmlTemplates) ResetPassword(data service.ResetPasswordMail) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "reset_password.html", data); err != nil {
		return "", errors.Wrap(err, "failed to render reset password email")
	}

	return buf.String(), nil
}
