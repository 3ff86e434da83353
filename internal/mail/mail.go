// Package mail sends transactional email. Only the password-reset flow
// uses it; when SMTP is not configured the log mailer keeps the flow
// working in development.
package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SMTPMailer struct {
	Host string
	Port string
	From string
	auth smtp.Auth
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		Host: host,
		Port: port,
		From: from,
		auth: smtp.PlainAuth("", username, password, host),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(html)

	if err := smtp.SendMail(m.Host+":"+m.Port, m.auth, m.From, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer writes the mail to the log instead of sending it.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, html string) error {
	log.Printf("[mail] to=%s subject=%q (smtp not configured, not sent)", to, subject)
	return nil
}
