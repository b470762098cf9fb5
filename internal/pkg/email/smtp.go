// internal/pkg/email/smtp.go
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// sendSMTPEmail sends email using SMTP (Gmail, Outlook, or self-hosted).
// The whole exchange is bounded by ctx; without a deadline the HTTP client
// timeout applies.
func (s *EmailService) sendSMTPEmail(ctx context.Context, email *Email) error {
	if s.config.SMTPHost == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.client.Timeout)
		defer cancel()
	}

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	msg := buildMIMEMessage(s.fromAddress(), s.config.ReplyTo, email)
	serverAddr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	conn, err := s.dialSMTP(ctx, serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set SMTP deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	return s.deliverSMTP(conn, auth, s.config.FromEmail, email.To, msg)
}

// dialSMTP opens an implicit TLS connection when configured, plain TCP otherwise
func (s *EmailService) dialSMTP(ctx context.Context, serverAddr string) (net.Conn, error) {
	if s.config.SMTPUseTLS {
		dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.config.SMTPHost}}
		return dialer.DialContext(ctx, "tcp", serverAddr)
	}
	var dialer net.Dialer
	return dialer.DialContext(ctx, "tcp", serverAddr)
}

// buildMIMEMessage renders headers in a fixed order followed by the HTML body
func buildMIMEMessage(from, replyTo string, email *Email) []byte {
	var msg bytes.Buffer
	writeHeader := func(key, value string) {
		msg.WriteString(key + ": " + value + "\r\n")
	}

	writeHeader("From", from)
	writeHeader("To", strings.Join(email.To, ", "))
	if replyTo != "" {
		writeHeader("Reply-To", replyTo)
	}
	writeHeader("Subject", email.Subject)
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/html; charset="utf-8"`)
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLContent)
	return msg.Bytes()
}

// deliverSMTP runs the SMTP conversation over an open connection. Plain
// connections are upgraded with STARTTLS when the server offers it.
func (s *EmailService) deliverSMTP(conn net.Conn, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if !s.config.SMTPUseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.config.SMTPHost}); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to send DATA command: %w", err)
	}

	if _, err := writer.Write(msg); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write email content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish email content: %w", err)
	}

	return client.Quit()
}
