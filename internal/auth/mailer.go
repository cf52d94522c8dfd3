package auth

import (
	"fmt"
	"net/smtp"

	"github.com/gravadigital/lineup-api/internal/logger"
)

// SMTPMailer delivers login codes over plain SMTP with optional auth
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(host, port, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

// SendLoginCode emails the code to the user
func (m *SMTPMailer) SendLoginCode(email, code string) error {
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + email + "\r\n" +
		"Subject: Your login code\r\n" +
		"\r\n" +
		"Your login code is " + code + ". It expires in a few minutes.\r\n")

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{email}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogMailer writes codes to the application log instead of sending
// mail. Meant for local development without an SMTP server.
type LogMailer struct{}

// SendLoginCode logs the code
func (LogMailer) SendLoginCode(email, code string) error {
	logger.Auth().Info("login code (mail delivery disabled)", "email", email, "code", code)
	return nil
}
