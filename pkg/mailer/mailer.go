package mailer

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/ArowuTest/wagerspin-backend/internal/config"
)

// Mailer sends transactional email
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// MockMailer logs instead of sending, for local development and tests
type MockMailer struct{}

// New returns the mailer selected by configuration
func New(cfg *config.Config) Mailer {
	if cfg.SMTP.MockMail {
		return &MockMailer{}
	}
	return &SMTPMailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		username: cfg.SMTP.Username,
		password: cfg.SMTP.Password,
		from:     cfg.SMTP.From,
	}
}

// Send sends a plain-text email
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.host == "" || m.username == "" || m.password == "" || m.from == "" {
		return errors.New("smtp mailer is not configured")
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// Send logs the message
func (m *MockMailer) Send(to, subject, _ string) error {
	log.Printf("[MOCK] mailer: to=%s subject=%q", to, subject)
	return nil
}
