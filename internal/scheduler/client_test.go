package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testSchedulerConfig struct {
	url   string
	queue string
}

func (c testSchedulerConfig) GetRedisURL() string      { return c.url }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClient_RequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestClient_EnqueueAttentionSweep(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{url: "redis://" + srv.Addr(), queue: "diagnostics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = client.Close() }()

	payload := AttentionSweepPayload{SweepID: uuid.NewString(), WindowDays: 7}
	if err := client.EnqueueAttentionSweep(context.Background(), payload); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if len(srv.Keys()) == 0 {
		t.Fatal("expected the task to be written to redis")
	}
}

func TestAttentionSweepPayloadRoundTrip(t *testing.T) {
	payload := AttentionSweepPayload{SweepID: uuid.NewString(), WindowDays: 14}

	task, err := NewAttentionSweepTask(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskAttentionSweep {
		t.Fatalf("unexpected task type %s", task.Type())
	}

	parsed, err := ParseAttentionSweepPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != payload {
		t.Fatalf("expected %+v, got %+v", payload, parsed)
	}
}

func TestRedisClientOpt_InvalidURL(t *testing.T) {
	if _, err := redisClientOpt("not-a-url", false); err == nil {
		t.Fatal("expected parse error")
	}
}
