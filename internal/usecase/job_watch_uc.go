package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"aiblty-platform/internal/domain/model"
	"aiblty-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ JobWatchUseCase = (*jobWatchUC)(nil)

const defaultWatchInterval = time.Second

type JobWatchUseCase interface {
	Get(ctx context.Context, jobID string) (*model.Job, error)
	List(ctx context.Context, userID string, offset, limit int) ([]*model.Job, error)

	// Watch polls the job on a fixed interval and invokes onUpdate with the
	// latest snapshot on every tick, changed or not. Polling stops on a
	// terminal status, on ctx cancellation, or when the returned stop
	// function is called. Per-tick fetch errors are swallowed; the next tick
	// retries.
	Watch(ctx context.Context, jobID string, interval time.Duration, onUpdate func(*model.Job)) (stop func())
}

type jobWatchUC struct {
	jobs repository.JobRepository
	log  *zerolog.Logger
}

func NewJobWatchUseCase(jobs repository.JobRepository, log *zerolog.Logger) *jobWatchUC {
	return &jobWatchUC{jobs: jobs, log: log}
}

func (w *jobWatchUC) Get(ctx context.Context, jobID string) (*model.Job, error) {
	return w.jobs.FindByID(ctx, nil, jobID)
}

func (w *jobWatchUC) List(ctx context.Context, userID string, offset, limit int) ([]*model.Job, error) {
	return w.jobs.FindByUser(ctx, nil, userID, offset, limit)
}

func (w *jobWatchUC) Watch(ctx context.Context, jobID string, interval time.Duration, onUpdate func(*model.Job)) func() {
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	done := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(done) }) }

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				job, err := w.jobs.FindByID(ctx, nil, jobID)
				if err != nil {
					w.log.Debug().Err(err).Str("job_id", jobID).Msg("watch tick fetch failed")
					continue
				}
				onUpdate(job)
				if job.Terminal() {
					stop()
					return
				}
			}
		}
	}()

	return stop
}
