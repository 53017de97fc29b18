package notification

import (
	"context"
	"testing"
	"time"

	"stayclean_backend/internal/cleanings/transport"
	"stayclean_backend/internal/events"
	"stayclean_backend/platform/logger"

	"github.com/google/uuid"
)

type testDigestConfig struct {
	recipient string
}

func (c testDigestConfig) GetDigestRecipient() string       { return c.recipient }
func (c testDigestConfig) GetDigestCheckoutWindowDays() int { return 7 }
func (c testDigestConfig) GetDigestInterval() time.Duration { return time.Hour }

type testSender struct {
	digestCalls int
	lastTo      string
}

func (s *testSender) SendAttentionDigestEmail(_ context.Context, toEmail string, _ transport.AttentionDigest) error {
	s.digestCalls++
	s.lastTo = toEmail
	return nil
}

func (s *testSender) SendCustomEmail(context.Context, string, string, string) error { return nil }

func attentionEvent() events.CleaningAttentionDetected {
	return events.CleaningAttentionDetected{
		BaseEvent: events.NewBaseEvent(),
		SweepID:   uuid.New(),
		Digest: transport.AttentionDigest{
			GeneratedAt:   time.Now().UTC(),
			WindowDays:    7,
			CriticalCount: 1,
			Entries: []transport.DigestEntry{
				{BookingID: uuid.New(), PropertyName: "Seaside Loft"},
			},
		},
	}
}

func TestHandleAttentionDetected_SendsDigest(t *testing.T) {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	sender := &testSender{}

	NewModule(bus, sender, testDigestConfig{recipient: "ops@example.com"}, log)

	if err := bus.PublishSync(context.Background(), attentionEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sender.digestCalls != 1 {
		t.Fatalf("expected 1 digest email, got %d", sender.digestCalls)
	}
	if sender.lastTo != "ops@example.com" {
		t.Fatalf("expected configured recipient, got %s", sender.lastTo)
	}
}

func TestHandleAttentionDetected_SkipsWithoutRecipient(t *testing.T) {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	sender := &testSender{}

	NewModule(bus, sender, testDigestConfig{}, log)

	if err := bus.PublishSync(context.Background(), attentionEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sender.digestCalls != 0 {
		t.Fatalf("expected no email without recipient, got %d", sender.digestCalls)
	}
}
