package scheduler

import (
	"context"
	"fmt"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/internal/cleanings/service"
	"stayclean_backend/internal/events"
	"stayclean_backend/platform/config"
	"stayclean_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	cleanings *service.Service
	bus       events.Bus
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, reasons *service.ReasonTable, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		cleanings: service.New(repository.New(pool), reasons, log),
		bus:       bus,
		log:       log,
	}

	mux.HandleFunc(TaskAttentionSweep, w.handleAttentionSweep)

	return w, nil
}

func (w *Worker) handleAttentionSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAttentionSweepPayload(task)
	if err != nil {
		return err
	}

	sweepID, err := uuid.Parse(payload.SweepID)
	if err != nil {
		return err
	}

	digest, err := w.cleanings.BuildAttentionDigest(ctx, payload.WindowDays)
	if err != nil {
		return err
	}

	w.log.Info("attention sweep completed",
		"sweep_id", sweepID.String(),
		"bookings", len(digest.Entries),
		"critical", digest.CriticalCount,
	)

	if w.bus == nil || len(digest.Entries) == 0 {
		return nil
	}

	return w.bus.PublishSync(ctx, events.CleaningAttentionDetected{
		BaseEvent: events.NewBaseEvent(),
		SweepID:   sweepID,
		Digest:    *digest,
	})
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
