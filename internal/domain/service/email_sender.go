package service

import "context"

// EmailMessage is a single outgoing HTML email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// EmailSender delivers transactional email.
type EmailSender interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// ResetPasswordMail fills the password reset email.
type ResetPasswordMail struct {
	Name      string
	Link      string
	ExpiresIn string
	Year      int
}

// MailTemplates renders transactional email bodies.
type MailTemplates interface {
	ResetPassword(data ResetPasswordMail) (string, error)
}
