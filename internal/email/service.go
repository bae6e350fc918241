package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/resqlink/dispatch-api/internal/config"
)

// Service delivers pre-notification email to a hospital triage desk.
// Delivery is a side effect outside the case transaction; the recorded
// notification stays the source of truth whether or not the mail lands.
type Service interface {
	SendPreNotification(ctx context.Context, to, subject, body string) error
}

type smtpService struct {
	cfg config.SMTPConfig
}

func NewService(cfg config.SMTPConfig) Service {
	return &smtpService{cfg: cfg}
}

func (s *smtpService) SendPreNotification(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send pre-notification email: %w", err)
	}
	return nil
}
