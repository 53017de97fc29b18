// Package email delivers operational emails over SMTP.
package email

import (
	"context"

	"stayclean_backend/internal/cleanings/transport"
	"stayclean_backend/platform/config"
)

// Sender delivers the emails the application produces.
type Sender interface {
	SendAttentionDigestEmail(ctx context.Context, toEmail string, digest transport.AttentionDigest) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendAttentionDigestEmail(ctx context.Context, toEmail string, digest transport.AttentionDigest) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// NewSender returns the SMTP sender when email is enabled, otherwise a noop.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
