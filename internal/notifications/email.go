package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"campusevents/internal/shared/config"
)

// EmailSender delivers one notification as an email
type EmailSender interface {
	Send(ctx context.Context, notification *Notification) error
}

type smtpSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender builds a sender backed by net/smtp. Returns nil when no
// SMTP host is configured; the consumer then logs instead of sending.
func NewSMTPSender(cfg config.EmailConfig) EmailSender {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(_ context.Context, notification *Notification) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	var msg strings.Builder
	msg.WriteString("From: " + s.cfg.FromEmail + "\r\n")
	msg.WriteString("To: " + notification.RecipientEmail + "\r\n")
	msg.WriteString("Subject: " + notification.Subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(notification.Body)

	err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{notification.RecipientEmail}, []byte(msg.String()))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
