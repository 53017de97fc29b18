package scheduler

import (
	"context"
	"time"

	"stayclean_backend/platform/config"
	"stayclean_backend/platform/logger"

	"github.com/google/uuid"
)

// SweepDispatcher enqueues an attention sweep on a fixed interval. It runs
// inside the scheduler process next to the worker; the worker picks the task
// up through the queue like any other.
type SweepDispatcher struct {
	client     SweepScheduler
	interval   time.Duration
	windowDays int
	log        *logger.Logger
}

func NewSweepDispatcher(client SweepScheduler, cfg config.DigestConfig, log *logger.Logger) *SweepDispatcher {
	interval := cfg.GetDigestInterval()
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	return &SweepDispatcher{
		client:     client,
		interval:   interval,
		windowDays: cfg.GetDigestCheckoutWindowDays(),
		log:        log,
	}
}

func (d *SweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		payload := AttentionSweepPayload{
			SweepID:    uuid.New().String(),
			WindowDays: d.windowDays,
		}
		if err := d.client.EnqueueAttentionSweep(ctx, payload); err != nil {
			d.log.Warn("attention sweep enqueue failed", "error", err)
			continue
		}
		d.log.Info("attention sweep enqueued", "sweep_id", payload.SweepID)
	}
}
