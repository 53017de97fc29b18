// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"stayclean_backend/internal/cleanings/transport"
	"stayclean_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Cleanings Domain Events
// =============================================================================

// CleaningAttentionDetected is published after an attention sweep finds
// bookings with unresolved findings. Carries the full digest so subscribers
// need no further queries.
type CleaningAttentionDetected struct {
	BaseEvent
	SweepID uuid.UUID                 `json:"sweepId"`
	Digest  transport.AttentionDigest `json:"digest"`
}

func (e CleaningAttentionDetected) EventName() string { return "cleanings.attention.detected" }
