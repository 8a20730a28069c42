package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is the durable record of one capability invocation.
// Exactly one of Result/Error is set once the status is terminal.
type Job struct {
	ID         string
	UserID     string
	ProjectID  string
	Type       Capability
	Status     JobStatus
	Progress   int
	Input      map[string]any
	Result     map[string]any
	Error      string
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewJob(userID string, capability Capability, input map[string]any, projectID string) *Job {
	now := time.Now()
	return &Job{
		ID:        ulid.Make().String(),
		UserID:    userID,
		ProjectID: projectID,
		Type:      capability,
		Status:    JobStatusQueued,
		Progress:  0,
		Input:     input,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// MarkRunning sets StartedAt once; repeated calls are no-ops.
func (j *Job) MarkRunning() {
	if j.Status != JobStatusQueued {
		return
	}
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.UpdatedAt = now
}

// SetProgress clamps to [0,100] and never moves backwards within a run.
func (j *Job) SetProgress(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	if p > j.Progress {
		j.Progress = p
		j.UpdatedAt = time.Now()
	}
}

func (j *Job) Complete(result map[string]any) {
	if j.Terminal() {
		return
	}
	now := time.Now()
	j.Status = JobStatusCompleted
	j.Progress = 100
	j.Result = result
	j.Error = ""
	j.FinishedAt = &now
	j.UpdatedAt = now
}

func (j *Job) Fail(message string) {
	if j.Terminal() {
		return
	}
	now := time.Now()
	j.Status = JobStatusFailed
	j.Result = nil
	j.Error = message
	j.FinishedAt = &now
	j.UpdatedAt = now
}
