// Package mailer sends contact-form notifications over SMTP.
// Uses net/smtp directly (no SDK) to minimize external dependencies.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// DefaultSubject is used when a submission carries no subject of its own.
const DefaultSubject = "Contact form submission"

// Message is one outbound notification.
type Message struct {
	Subject string
	Phone   string
	Email   string
	Body    string
}

// Mailer is the outbound mail interface.
type Mailer interface {
	// Send delivers the message to the configured recipient.
	Send(ctx context.Context, msg Message) error
}

// Config holds SMTP connection settings.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
}

// smtpMailer is the production Mailer backed by net/smtp.
type smtpMailer struct {
	cfg      Config
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a Mailer for the given SMTP configuration.
func New(cfg Config) Mailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &smtpMailer{cfg: cfg, sendMail: smtp.SendMail}
}

var _ Mailer = (*smtpMailer)(nil)

// Send delivers the message. net/smtp has no context support, so ctx is
// consulted only before dialing.
func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var a smtp.Auth
	if m.cfg.Username != "" {
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.sendMail(addr, a, m.cfg.From, []string{m.cfg.Recipient}, encode(m.cfg.From, m.cfg.Recipient, msg)); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// encode renders the RFC 5322 wire form of the notification.
func encode(from, to string, msg Message) []byte {
	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = DefaultSubject
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(BuildBody(msg))
	return []byte(b.String())
}

// BuildBody renders the notification text the way the storefront expects:
// the message first, then the submitter's contact details.
func BuildBody(msg Message) string {
	return fmt.Sprintf("%s\n\nContact number: %s\nReply email: %s", msg.Body, msg.Phone, msg.Email)
}

// sanitizeHeader strips CR/LF to prevent header injection from form input.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
