package workers

import (
	"context"
	"log/slog"
	"time"

	"retro-chat/domain/event"
	"retro-chat/runtime"
)

// BannerWorker plays login banners. Each job is an ordered list of system
// messages delivered to one connection with a fixed delay between lines;
// every job runs in its own goroutine, so a banner in progress delays
// neither coordination nor other banners.
type BannerWorker struct {
	log   *slog.Logger
	jobs  chan runtime.BannerJob
	delay time.Duration
}

func NewBannerWorker(log *slog.Logger, jobs chan runtime.BannerJob, delay time.Duration) *BannerWorker {
	return &BannerWorker{log: log, jobs: jobs, delay: delay}
}

// Schedule enqueues a banner for playback. When the queue is saturated the
// banner is dropped rather than stalling the caller.
func (w *BannerWorker) Schedule(job runtime.BannerJob) {
	select {
	case w.jobs <- job:
	default:
		w.log.Warn("banner queue full, dropping banner", "connection_id", job.ConnectionID)
	}
}

func (w *BannerWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case job, ok := <-w.jobs:
			if !ok {
				return nil
			}
			go w.play(ctx, job)
		}
	}
}

func (w *BannerWorker) play(ctx context.Context, job runtime.BannerJob) {
	for i, line := range job.Lines {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.delay):
			}
		}
		evt := event.NewSystemMessage(line, time.Now())
		if err := job.Sink.Consume(ctx, evt); err != nil {
			// The connection went away mid-banner; the rest of the lines
			// have nowhere to go.
			w.log.Debug("banner interrupted", "connection_id", job.ConnectionID, "err", err)
			return
		}
	}
}
