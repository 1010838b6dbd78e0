package reminder

import (
	"context"
	"time"

	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

// Runner drives the scanner on a fixed interval until the context is
// cancelled.
type Runner struct {
	scanner  *Scanner
	interval time.Duration
	logger   *logging.Logger
}

// NewRunner creates a reminder runner.
func NewRunner(scanner *Scanner, interval time.Duration, logger *logging.Logger) *Runner {
	if scanner == nil {
		panic("reminder: scanner required")
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{scanner: scanner, interval: interval, logger: logger}
}

// Run ticks immediately, then on every interval, and returns when ctx
// is cancelled. Tick errors are logged and the loop keeps going.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("reminder runner started", "interval", r.interval.String())

	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reminder runner stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if err := r.scanner.RunTick(ctx, time.Now().UTC()); err != nil {
		r.logger.Error("reminder tick failed", "error", err)
	}
}
