package report

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/chialin/folio/internal/common"
)

// Mailer sends plain-text mail over authenticated SMTP. Credentials come
// from configuration only and are never logged.
type Mailer interface {
	Send(subject, body string) error
}

// SMTPMailer delivers through the configured SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg common.MailConfig
}

// NewSMTPMailer creates a mailer from the mail configuration.
func NewSMTPMailer(cfg common.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send builds an RFC 5322 message and submits it.
func (m *SMTPMailer) Send(subject, body string) error {
	if m.cfg.Sender == "" || m.cfg.Recipient == "" {
		return fmt.Errorf("mail sender and recipient must be configured")
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.cfg.Sender + "\r\n")
	msg.WriteString("To: " + m.cfg.Recipient + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", m.cfg.Sender, m.cfg.Credential, m.cfg.Server)
	if err := smtp.SendMail(m.cfg.Addr(), auth, m.cfg.Sender, []string{m.cfg.Recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send report mail: %w", err)
	}
	return nil
}
