package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/ports/repository"
	"aiblty-platform/internal/usecase"
)

// JobProcessor claims queued capability jobs and drives them through the
// orchestrator. Multiple instances can run against the same database; the
// claim query uses FOR UPDATE SKIP LOCKED so jobs are never double-claimed.
type JobProcessor struct {
	jobs         repository.JobRepository
	runner       usecase.RunUseCase
	pollInterval time.Duration
	log          *zerolog.Logger
}

func NewJobProcessor(jobs repository.JobRepository, runner usecase.RunUseCase, pollInterval time.Duration, log *zerolog.Logger) *JobProcessor {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &JobProcessor{jobs: jobs, runner: runner, pollInterval: pollInterval, log: log}
}

// Start runs the claim loop. This should be run in a goroutine.
func (p *JobProcessor) Start(ctx context.Context, pool *Pool) {
	p.log.Info().Msg("job processor started")
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("job processor stopping")
			return
		case <-ticker.C:
			_ = pool.Submit(func(ctx context.Context) error {
				p.processOne(ctx)
				return nil
			})
		}
	}
}

func (p *JobProcessor) processOne(ctx context.Context) {
	job, err := p.jobs.FetchAndMarkRunning(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.log.Error().Err(err).Msg("failed to claim job")
		}
		return
	}

	p.log.Info().Str("job_id", job.ID).Str("capability", string(job.Type)).Msg("processing job")
	start := time.Now()

	// Execute owns terminal status, artifact, and telemetry.
	if _, err := p.runner.Execute(ctx, job, nil); err != nil {
		p.log.Error().Err(err).Str("job_id", job.ID).Msg("job failed")
	}
	p.log.Info().
		Str("job_id", job.ID).
		Str("status", string(job.Status)).
		Dur("duration_ms", time.Since(start)).
		Msg("job finished")
}
