package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int64
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestPeriodic(t *testing.T) {
	job := &countingJob{err: errors.New("upload failed")}
	p := NewPeriodic(job, 5*time.Millisecond)

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run(context.Background())
	}()

	// failures do not stop the worker
	require.Eventually(t, func() bool { return job.runs.Load() >= 3 }, time.Second, time.Millisecond)
	require.NoError(t, p.ShutdownWithTimeout(time.Second))
	assert.NoError(t, <-errCh)

	// shutdown is idempotent
	assert.NoError(t, p.Shutdown())
}

type blockingJob struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Run(context.Context) error {
	j.once.Do(func() { close(j.started) })
	<-j.release
	return nil
}

func TestPeriodicShutdownTimeout(t *testing.T) {
	job := &blockingJob{started: make(chan struct{}), release: make(chan struct{})}
	p := NewPeriodic(job, time.Millisecond)
	p.shutdownTimeout = 10 * time.Millisecond

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run(context.Background())
	}()
	<-job.started

	err := p.ShutdownWithTimeout(time.Second)
	assert.True(t, errors.Is(err, errs.Timeout), "got %v", err)

	close(job.release)
	assert.NoError(t, <-errCh)
}

func TestPeriodicDisabled(t *testing.T) {
	job := &countingJob{}
	p := NewPeriodic(job, 0)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-errCh:
		t.Fatal("disabled worker returned before shutdown")
	default:
	}

	cancel()
	assert.NoError(t, <-errCh)
	assert.Zero(t, job.runs.Load())
}
