package export

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/core/worker"
)

var _ worker.Job = (*Job)(nil)

// Uploader stores an encoded snapshot.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}

// Job uploads a burn log snapshot on every run.
type Job struct {
	exporter      *Exporter
	uploader      Uploader
	prefix        string
	unsettledOnly bool
	now           func() time.Time
}

func NewJob(exporter *Exporter, uploader Uploader, conf Config) *Job {
	return &Job{
		exporter:      exporter,
		uploader:      uploader,
		prefix:        conf.Prefix,
		unsettledOnly: conf.UnsettledOnly,
		now:           time.Now,
	}
}

func (j *Job) Name() string {
	return "burn_export"
}

func (j *Job) Run(ctx context.Context) error {
	_, err := j.Export(ctx)
	return errors.WithStack(err)
}

// Export takes a snapshot and uploads it, returning the object location.
func (j *Job) Export(ctx context.Context) (string, error) {
	records, err := j.exporter.Snapshot(ctx, j.unsettledOnly)
	if err != nil {
		return "", errors.Wrap(err, "failed to snapshot burn log")
	}
	data, err := Encode(records)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode burn log")
	}
	location, err := j.uploader.Upload(ctx, ObjectKey(j.prefix, j.now()), data)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return location, nil
}
