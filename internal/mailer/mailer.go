// Package mailer delivers contact-form submissions over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer sends a contact-form message to the site owner. The interface
// exists so handlers can be tested with a fake instead of a live SMTP
// conversation.
type Mailer interface {
	SendContactMessage(fromEmail, message string) error
}

// SMTPMailer talks plain SMTP with AUTH PLAIN over STARTTLS, which is what
// the usual providers (Gmail app passwords included) expect on port 587.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	to       string
}

func NewSMTPMailer(host string, port int, username, password, to string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		to:       to,
	}
}

func (m *SMTPMailer) SendContactMessage(fromEmail, message string) error {
	// The visitor's address goes in the body, not the envelope: the
	// envelope sender must be the authenticated account or most relays
	// reject the message.
	body := fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: New contact form message\r\n\r\nFrom: %s\r\n\r\n%s\r\n",
		m.to, m.username, fromEmail, message,
	)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.username, []string{m.to}, []byte(body)); err != nil {
		return fmt.Errorf("mailer: sending contact message: %w", err)
	}
	return nil
}
