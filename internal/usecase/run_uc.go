package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/model"
	"aiblty-platform/internal/domain/ports/adapter"
	"aiblty-platform/internal/domain/ports/repository"
	"aiblty-platform/internal/infra/metrics"
)

// Compile-time check
var _ RunUseCase = (*runUC)(nil)

// ProgressFn receives the job's current progress and the cumulative assistant
// text produced so far. It is invoked from the run goroutine; callers that
// need to fan out must do their own buffering.
type ProgressFn func(progress int, content string)

// RunResult is the outcome of one capability invocation.
type RunResult struct {
	Job       *model.Job
	Artifacts []*model.Artifact
}

type RunUseCase interface {
	// Run streams a capability end to end: gate, job record, completion
	// stream, artifact, terminal job status.
	Run(ctx context.Context, userID string, capability model.Capability, prompt, projectID string, onProgress ProgressFn) (*RunResult, error)

	// RunBlocking uses a single non-streaming completion and synthesizes
	// heartbeat progress while waiting.
	RunBlocking(ctx context.Context, userID string, capability model.Capability, prompt, projectID string, onProgress ProgressFn) (*RunResult, error)

	// Enqueue persists a queued job for the background processor and returns
	// immediately. Unlike Run, a failed save here is fatal.
	Enqueue(ctx context.Context, userID string, capability model.Capability, prompt, projectID string) (*model.Job, error)

	// Execute drives a previously queued job (the worker path).
	Execute(ctx context.Context, job *model.Job, onProgress ProgressFn) (*RunResult, error)
}

type runUC struct {
	jobs      repository.JobRepository
	artifacts repository.ArtifactRepository
	events    repository.EventLogRepository
	ai        adapter.CompletionGateway
	usage     UsageUseCase
	log       *zerolog.Logger
}

func NewRunUseCase(
	jobs repository.JobRepository,
	artifacts repository.ArtifactRepository,
	events repository.EventLogRepository,
	ai adapter.CompletionGateway,
	usage UsageUseCase,
	log *zerolog.Logger,
) *runUC {
	return &runUC{jobs: jobs, artifacts: artifacts, events: events, ai: ai, usage: usage, log: log}
}

func (r *runUC) Run(ctx context.Context, userID string, capability model.Capability, prompt, projectID string, onProgress ProgressFn) (*RunResult, error) {
	spec, job, err := r.admit(ctx, userID, capability, prompt, projectID)
	if err != nil {
		return nil, err
	}

	job.MarkRunning()
	r.saveJob(ctx, job)
	return r.stream(ctx, job, spec, prompt, onProgress)
}

func (r *runUC) RunBlocking(ctx context.Context, userID string, capability model.Capability, prompt, projectID string, onProgress ProgressFn) (*RunResult, error) {
	spec, job, err := r.admit(ctx, userID, capability, prompt, projectID)
	if err != nil {
		return nil, err
	}

	job.MarkRunning()
	r.saveJob(ctx, job)

	start := time.Now()
	messages := augment(spec, prompt)

	// Heartbeat: creep progress toward 90 while the provider works so
	// pollers see movement. The real value lands on completion.
	stopHB := make(chan struct{})
	hbDone := make(chan struct{})
	go func() {
		defer close(hbDone)
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stopHB:
				return
			case <-ticker.C:
				next := job.Progress + 5
				if next > 90 {
					next = 90
				}
				job.SetProgress(next)
				r.saveJob(ctx, job)
				if onProgress != nil {
					onProgress(job.Progress, "")
				}
			}
		}
	}()

	text, usage, err := r.ai.Complete(ctx, spec.Mode, messages)
	close(stopHB)
	<-hbDone
	if err != nil {
		return nil, r.fail(ctx, job, err)
	}

	return r.finish(ctx, job, spec, messages, prompt, text, usage.TotalTokens, start, onProgress)
}

func (r *runUC) Enqueue(ctx context.Context, userID string, capability model.Capability, prompt, projectID string) (*model.Job, error) {
	_, job, err := r.admit(ctx, userID, capability, prompt, projectID)
	if err != nil {
		return nil, err
	}

	if err := r.jobs.Save(ctx, nil, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *runUC) Execute(ctx context.Context, job *model.Job, onProgress ProgressFn) (*RunResult, error) {
	spec, ok := model.LookupCapability(job.Type)
	if !ok {
		return nil, r.fail(ctx, job, domain.ErrUnknownCapability)
	}
	prompt, _ := job.Input["prompt"].(string)
	if strings.TrimSpace(prompt) == "" {
		return nil, r.fail(ctx, job, fmt.Errorf("%w: job %s has no prompt", domain.ErrInvalidArgument, job.ID))
	}

	job.MarkRunning()
	r.saveJob(ctx, job)
	return r.stream(ctx, job, spec, prompt, onProgress)
}

// admit validates the request, checks the usage gate, and builds the queued
// job. The gate blocks before any durable record exists.
func (r *runUC) admit(ctx context.Context, userID string, capability model.Capability, prompt, projectID string) (model.CapabilitySpec, *model.Job, error) {
	spec, ok := model.LookupCapability(capability)
	if !ok {
		return model.CapabilitySpec{}, nil, fmt.Errorf("%w: %q", domain.ErrUnknownCapability, capability)
	}
	if strings.TrimSpace(prompt) == "" {
		return model.CapabilitySpec{}, nil, fmt.Errorf("%w: empty prompt", domain.ErrInvalidArgument)
	}
	if userID == "" {
		return model.CapabilitySpec{}, nil, fmt.Errorf("%w: missing user", domain.ErrInvalidArgument)
	}

	status, err := r.usage.Check(ctx, userID)
	if err == nil && !status.CanProceed {
		return model.CapabilitySpec{}, nil, fmt.Errorf("%w: daily limit of %d tokens reached", domain.ErrQuotaExhausted, status.DailyLimit)
	}

	job := model.NewJob(userID, capability, map[string]any{"prompt": prompt}, projectID)
	return spec, job, nil
}

// augment prepends the capability template to the user prompt. The template
// is never mutated; user input is appended after it.
func augment(spec model.CapabilitySpec, prompt string) []adapter.Message {
	return []adapter.Message{{Role: "user", Content: spec.Template + "\n\n" + prompt}}
}

func (r *runUC) stream(ctx context.Context, job *model.Job, spec model.CapabilitySpec, prompt string, onProgress ProgressFn) (*RunResult, error) {
	start := time.Now()
	messages := augment(spec, prompt)

	stream, err := r.ai.StreamComplete(ctx, spec.Mode, messages)
	if err != nil {
		return nil, r.fail(ctx, job, err)
	}
	defer stream.Close()

	var buf strings.Builder
	deltas := 0
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, r.fail(ctx, job, err)
		}
		if delta == "" {
			continue
		}
		buf.WriteString(delta)
		deltas++
		metrics.IncStreamDelta(spec.Mode)

		// Progress is a heuristic until completion; never exceeds 90 here.
		p := 10 + deltas
		if p > 90 {
			p = 90
		}
		job.SetProgress(p)
		if onProgress != nil {
			onProgress(job.Progress, buf.String())
		}
	}

	return r.finish(ctx, job, spec, messages, prompt, buf.String(), 0, start, onProgress)
}

// finish persists the artifact, completes the job, and records telemetry.
// An artifact save failure is logged but does not fail the run: the text is
// already in hand and is returned to the caller either way.
func (r *runUC) finish(ctx context.Context, job *model.Job, spec model.CapabilitySpec, messages []adapter.Message, prompt, content string, providerTokens int, start time.Time, onProgress ProgressFn) (*RunResult, error) {
	// Metadata is the provenance record: which capability produced the
	// artifact and the original prompt, before template augmentation.
	artifact := model.NewArtifact(job.UserID, job.ProjectID, job.ID, string(job.Type), spec.DisplayName, content,
		map[string]any{"capability": string(job.Type), "prompt": prompt})
	if err := r.artifacts.Save(ctx, nil, artifact); err != nil {
		r.log.Warn().Err(err).Str("job_id", job.ID).Msg("artifact save failed")
	}

	job.Complete(map[string]any{"artifactCount": 1})
	r.saveJob(ctx, job)
	if onProgress != nil {
		onProgress(job.Progress, content)
	}

	elapsed := time.Since(start)
	metrics.IncJob(string(model.JobStatusCompleted), string(job.Type))
	metrics.ObserveJobDuration(string(job.Type), elapsed.Seconds())
	r.recordUsage(ctx, job, spec.Mode, messages, content, providerTokens, elapsed)
	r.appendEvent(ctx, model.EventLevelInfo, fmt.Sprintf("Job completed: %s", job.Type), job)

	return &RunResult{Job: job, Artifacts: []*model.Artifact{artifact}}, nil
}

func (r *runUC) fail(ctx context.Context, job *model.Job, err error) error {
	job.Fail(err.Error())
	r.saveJob(ctx, job)
	metrics.IncJob(string(model.JobStatusFailed), string(job.Type))
	r.appendEvent(ctx, model.EventLevelError, fmt.Sprintf("Job failed: %s - %s", job.Type, err.Error()), job)
	return err
}

// saveJob is best effort. Losing the durable record degrades visibility but
// must not abort a run that can still produce output.
func (r *runUC) saveJob(ctx context.Context, job *model.Job) {
	if err := r.jobs.Save(ctx, nil, job); err != nil {
		r.log.Warn().Err(err).Str("job_id", job.ID).Msg("job save failed")
	}
}

// recordUsage charges the daily bucket. Streaming responses carry no usage
// block, so token counts fall back to local estimates.
func (r *runUC) recordUsage(ctx context.Context, job *model.Job, mode string, messages []adapter.Message, content string, providerTokens int, elapsed time.Duration) {
	promptTokens, err := r.ai.CountTokens(ctx, mode, messages)
	if err != nil {
		promptTokens = 0
	}
	completionTokens, err := r.ai.CountTokens(ctx, mode, []adapter.Message{{Role: "assistant", Content: content}})
	if err != nil {
		completionTokens = 0
	}
	total := providerTokens
	if total <= 0 {
		total = promptTokens + completionTokens
	}

	metrics.ObserveCompletion(mode, promptTokens, completionTokens, total, int(elapsed.Milliseconds()), true)
	_ = r.usage.Record(ctx, job.UserID, total)
}

func (r *runUC) appendEvent(ctx context.Context, level model.EventLevel, message string, job *model.Job) {
	if r.events == nil {
		return
	}
	entry := &model.EventLogEntry{
		Level:   level,
		Source:  "orchestrator",
		Message: message,
		UserID:  job.UserID,
		Meta:    map[string]any{"job_id": job.ID, "capability": string(job.Type)},
	}
	if err := r.events.Append(ctx, entry); err != nil {
		r.log.Warn().Err(err).Str("job_id", job.ID).Msg("event log append failed")
	}
}
