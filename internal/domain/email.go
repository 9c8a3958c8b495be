package domain

// Mailer sends a single email. Implementations may use SES, SMTP, or a no-op
// for development.
type Mailer interface {
	Send(to, subject, html, text string) error
}
