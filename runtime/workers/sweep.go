package workers

import (
	"context"
	"log/slog"
	"time"

	"chatroom/services"
)

// SweepWorker periodically expires inactive participants. The threshold
// decides who is stale; the interval only decides how often we look, so a
// participant may linger past the threshold until the next tick.
type SweepWorker struct {
	presence  services.IPresenceService
	interval  time.Duration
	threshold time.Duration
	log       *slog.Logger
}

func NewSweepWorker(
	presence services.IPresenceService,
	interval, threshold time.Duration,
	log *slog.Logger,
) *SweepWorker {
	return &SweepWorker{
		presence:  presence,
		interval:  interval,
		threshold: threshold,
		log:       log,
	}
}

func (w *SweepWorker) Run(ctx context.Context) error {
	w.log.Info("Starting inactivity sweep",
		"interval", w.interval, "threshold", w.threshold)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.presence.Sweep(time.Now().UTC(), w.threshold)
		}
	}
}
