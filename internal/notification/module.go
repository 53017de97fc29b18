// Package notification provides event handlers for sending notifications
// in response to domain events. The module subscribes to events and inverts
// the dependency: domain modules never talk to email providers directly.
package notification

import (
	"context"
	"fmt"

	"stayclean_backend/internal/email"
	"stayclean_backend/internal/events"
	"stayclean_backend/platform/config"
	"stayclean_backend/platform/logger"
)

// Module wires domain events to outbound notifications.
type Module struct {
	sender    email.Sender
	recipient string
	log       *logger.Logger
}

// NewModule creates the notification module and subscribes its handlers.
func NewModule(bus events.Bus, sender email.Sender, cfg config.DigestConfig, log *logger.Logger) *Module {
	m := &Module{
		sender:    sender,
		recipient: cfg.GetDigestRecipient(),
		log:       log,
	}

	bus.Subscribe(events.CleaningAttentionDetected{}.EventName(), events.HandlerFunc(m.handleAttentionDetected))

	return m
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "notification"
}

func (m *Module) handleAttentionDetected(ctx context.Context, event events.Event) error {
	detected, ok := event.(events.CleaningAttentionDetected)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if m.recipient == "" {
		m.log.Debug("attention digest skipped, no recipient configured",
			"sweep_id", detected.SweepID.String())
		return nil
	}

	if err := m.sender.SendAttentionDigestEmail(ctx, m.recipient, detected.Digest); err != nil {
		return fmt.Errorf("failed to send attention digest: %w", err)
	}

	m.log.Info("attention digest sent",
		"sweep_id", detected.SweepID.String(),
		"recipient", m.recipient,
		"bookings", len(detected.Digest.Entries),
	)
	return nil
}
