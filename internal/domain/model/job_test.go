package model

import "testing"

func TestJobLifecycle(t *testing.T) {
	job := NewJob("user-1", CapabilityAppGenerator, map[string]any{"prompt": "x"}, "proj-1")
	if job.ID == "" {
		t.Fatal("new job must have an id")
	}
	if job.Status != JobStatusQueued || job.Progress != 0 {
		t.Fatalf("unexpected initial state: %s %d", job.Status, job.Progress)
	}
	if job.Terminal() {
		t.Error("queued job must not be terminal")
	}

	job.MarkRunning()
	if job.Status != JobStatusRunning {
		t.Fatalf("expected running, got %s", job.Status)
	}
	if job.StartedAt == nil {
		t.Fatal("MarkRunning must set StartedAt")
	}
	started := *job.StartedAt
	job.MarkRunning() // repeated calls are no-ops
	if !job.StartedAt.Equal(started) {
		t.Error("repeated MarkRunning must not move StartedAt")
	}

	job.Complete(map[string]any{"artifactCount": 1})
	if job.Status != JobStatusCompleted || job.Progress != 100 {
		t.Errorf("unexpected terminal state: %s %d", job.Status, job.Progress)
	}
	if job.Error != "" || job.Result == nil {
		t.Errorf("completed job must carry exactly a result: error=%q result=%v", job.Error, job.Result)
	}
	if job.FinishedAt == nil {
		t.Error("Complete must set FinishedAt")
	}
}

func TestJobFailClearsResult(t *testing.T) {
	job := NewJob("user-1", CapabilityAppGenerator, nil, "")
	job.MarkRunning()
	job.Result = map[string]any{"partial": true}

	job.Fail("rate limited")
	if job.Status != JobStatusFailed {
		t.Fatalf("expected failed, got %s", job.Status)
	}
	if job.Result != nil || job.Error != "rate limited" {
		t.Errorf("failed job must carry exactly an error: error=%q result=%v", job.Error, job.Result)
	}
}

func TestJobTerminalStatesAreImmutable(t *testing.T) {
	job := NewJob("user-1", CapabilityAppGenerator, nil, "")
	job.MarkRunning()
	job.Complete(map[string]any{"artifactCount": 1})

	job.Fail("too late")
	if job.Status != JobStatusCompleted || job.Error != "" {
		t.Errorf("Fail must not overwrite a completed job: %s %q", job.Status, job.Error)
	}

	failed := NewJob("user-1", CapabilityAppGenerator, nil, "")
	failed.MarkRunning()
	failed.Fail("boom")
	failed.Complete(map[string]any{"x": 1})
	if failed.Status != JobStatusFailed || failed.Result != nil {
		t.Errorf("Complete must not overwrite a failed job: %s %v", failed.Status, failed.Result)
	}
}

func TestJobProgressNeverMovesBackwards(t *testing.T) {
	job := NewJob("user-1", CapabilityAppGenerator, nil, "")
	job.MarkRunning()

	job.SetProgress(40)
	job.SetProgress(20)
	if job.Progress != 40 {
		t.Errorf("progress moved backwards: %d", job.Progress)
	}

	job.SetProgress(150)
	if job.Progress != 100 {
		t.Errorf("progress must clamp to 100, got %d", job.Progress)
	}
	job.SetProgress(-5)
	if job.Progress != 100 {
		t.Errorf("negative progress must be ignored after clamp, got %d", job.Progress)
	}
}

func TestMarkRunningOnlyFromQueued(t *testing.T) {
	job := NewJob("user-1", CapabilityAppGenerator, nil, "")
	job.MarkRunning()
	job.Complete(nil)

	before := job.Status
	job.MarkRunning()
	if job.Status != before {
		t.Errorf("MarkRunning must not resurrect a terminal job: %s", job.Status)
	}
}
