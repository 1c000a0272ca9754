// Package mailer sends transactional mail. SMTP is the only provider; the
// interface keeps handlers testable without a mail server.
package mailer

import (
	"fmt"
	"net/smtp"

	"alujo/config"
	"alujo/logger"
)

// Mailer sends account mail.
type Mailer interface {
	SendPasswordReset(email, token string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host      string
	port      string
	username  string
	password  string
	from      string
	clientURL string
}

// NewSMTPMailer builds a mailer from the loaded configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		from:      cfg.EmailFrom,
		clientURL: cfg.ClientURL,
	}
}

// SendPasswordReset mails a reset link containing the token. With no SMTP
// host configured the mail is skipped and logged, which keeps development
// setups working.
func (m *SMTPMailer) SendPasswordReset(email, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", m.clientURL, token)

	if m.host == "" {
		logger.Warn("SMTP not configured, skipping password reset mail",
			logger.String("email", email))
		return nil
	}

	body := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: Alujo Password Reset\r\n"+
		"Content-Type: text/plain; charset=utf-8\r\n"+
		"\r\n"+
		"You requested a password reset. Open the link below to proceed:\r\n"+
		"%s\r\n"+
		"\r\n"+
		"This link expires in 1 hour. If you did not request a reset, ignore this mail.\r\n",
		m.from, email, resetURL)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{email}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send password reset mail: %w", err)
	}
	return nil
}
