package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
)

const defaultShutdownTimeout = 180 * time.Second

// Worker is a long running module process.
type Worker interface {
	Run(ctx context.Context) error
	ShutdownWithContext(ctx context.Context) error
}

// Job is one unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

var _ Worker = (*Periodic)(nil)

// Periodic runs a job on every interval tick until shut down.
// A zero interval never runs the job, Run only waits for shutdown.
type Periodic struct {
	job             Job
	interval        time.Duration
	shutdownTimeout time.Duration

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func NewPeriodic(job Job, interval time.Duration) *Periodic {
	return &Periodic{
		job:             job,
		interval:        interval,
		shutdownTimeout: defaultShutdownTimeout,

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (p *Periodic) Shutdown() error {
	return p.ShutdownWithContext(context.Background())
}

func (p *Periodic) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.ShutdownWithContext(ctx)
}

func (p *Periodic) ShutdownWithContext(ctx context.Context) (err error) {
	p.quitOnce.Do(func() {
		close(p.quit)
		select {
		case <-p.done:
		case <-time.After(p.shutdownTimeout):
			err = errors.Wrap(errs.Timeout, "worker shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "worker shutdown context canceled")
		}
	})
	return
}

func (p *Periodic) Run(ctx context.Context) error {
	defer close(p.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "worker"),
		slog.String("job", p.job.Name()),
	)

	if p.interval <= 0 {
		logger.InfoContext(ctx, "Job is disabled, waiting for shutdown")
		select {
		case <-p.quit:
		case <-ctx.Done():
		}
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping worker")
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			start := time.Now()
			if err := p.job.Run(ctx); err != nil {
				// the next tick retries
				logger.ErrorContext(ctx, "Job failed", slogx.Error(err))
				continue
			}
			logger.DebugContext(ctx, "Job done, waiting for next interval", slogx.Duration("duration", time.Since(start)))
		}
	}
}
