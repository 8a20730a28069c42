package web

import (
	"context"
	"time"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/model"
	"aiblty-platform/internal/domain/ports/repository"
	"aiblty-platform/internal/usecase"
)

// ---- Mock RunUseCase ----

type mockRunUC struct {
	RunFunc     func(ctx context.Context, userID string, capability model.Capability, prompt, projectID string, onProgress usecase.ProgressFn) (*usecase.RunResult, error)
	EnqueueFunc func(ctx context.Context, userID string, capability model.Capability, prompt, projectID string) (*model.Job, error)
}

var _ usecase.RunUseCase = (*mockRunUC)(nil)

func (m *mockRunUC) Run(ctx context.Context, userID string, capability model.Capability, prompt, projectID string, onProgress usecase.ProgressFn) (*usecase.RunResult, error) {
	return m.RunFunc(ctx, userID, capability, prompt, projectID, onProgress)
}

func (m *mockRunUC) RunBlocking(ctx context.Context, userID string, capability model.Capability, prompt, projectID string, onProgress usecase.ProgressFn) (*usecase.RunResult, error) {
	return m.RunFunc(ctx, userID, capability, prompt, projectID, onProgress)
}

func (m *mockRunUC) Enqueue(ctx context.Context, userID string, capability model.Capability, prompt, projectID string) (*model.Job, error) {
	return m.EnqueueFunc(ctx, userID, capability, prompt, projectID)
}

func (m *mockRunUC) Execute(ctx context.Context, job *model.Job, onProgress usecase.ProgressFn) (*usecase.RunResult, error) {
	return nil, domain.ErrInvalidArgument
}

// ---- Mock JobWatchUseCase ----

type mockJobsUC struct {
	Jobs map[string]*model.Job
}

var _ usecase.JobWatchUseCase = (*mockJobsUC)(nil)

func (m *mockJobsUC) Get(ctx context.Context, jobID string) (*model.Job, error) {
	j, ok := m.Jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return j, nil
}

func (m *mockJobsUC) List(ctx context.Context, userID string, offset, limit int) ([]*model.Job, error) {
	var out []*model.Job
	for _, j := range m.Jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobsUC) Watch(ctx context.Context, jobID string, interval time.Duration, onUpdate func(*model.Job)) func() {
	return func() {}
}

// ---- Mock ChatUseCase ----

type mockChatUC struct {
	StartFunc func(ctx context.Context, userID, title string) (*model.Conversation, error)
	SendFunc  func(ctx context.Context, userID, conversationID, text string) (string, error)
}

var _ usecase.ChatUseCase = (*mockChatUC)(nil)

func (m *mockChatUC) StartConversation(ctx context.Context, userID, title string) (*model.Conversation, error) {
	return m.StartFunc(ctx, userID, title)
}

func (m *mockChatUC) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	return nil
}

func (m *mockChatUC) SendMessage(ctx context.Context, userID, conversationID, text string) (string, error) {
	return m.SendFunc(ctx, userID, conversationID, text)
}

func (m *mockChatUC) Rename(ctx context.Context, userID, conversationID, title string) error {
	return nil
}

func (m *mockChatUC) Find(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	return nil, domain.ErrNotFound
}

func (m *mockChatUC) List(ctx context.Context, userID string) ([]*model.Conversation, error) {
	return nil, nil
}

// ---- Mock UsageUseCase ----

type mockUsageUC struct {
	Status usecase.UsageStatus
}

var _ usecase.UsageUseCase = (*mockUsageUC)(nil)

func (m *mockUsageUC) Check(ctx context.Context, userID string) (*usecase.UsageStatus, error) {
	st := m.Status
	return &st, nil
}

func (m *mockUsageUC) Record(ctx context.Context, userID string, tokens int) error { return nil }

// ---- Mock ArtifactRepository ----

type mockArtifactRepo struct {
	Artifacts []*model.Artifact
}

var _ repository.ArtifactRepository = (*mockArtifactRepo)(nil)

func (m *mockArtifactRepo) Save(ctx context.Context, tx repository.Tx, a *model.Artifact) error {
	m.Artifacts = append(m.Artifacts, a)
	return nil
}

func (m *mockArtifactRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Artifact, error) {
	for _, a := range m.Artifacts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockArtifactRepo) FindByJob(ctx context.Context, tx repository.Tx, jobID string) ([]*model.Artifact, error) {
	var out []*model.Artifact
	for _, a := range m.Artifacts {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockArtifactRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string, offset, limit int) ([]*model.Artifact, error) {
	var out []*model.Artifact
	for _, a := range m.Artifacts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
