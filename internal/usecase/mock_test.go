//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/model"
	"aiblty-platform/internal/domain/ports/adapter"
	"aiblty-platform/internal/domain/ports/repository"
	"aiblty-platform/internal/usecase"
)

// =============================
// Repositories
// =============================

// ---- Mock JobRepository ----

type MockJobRepo struct {
	mu   sync.Mutex
	Jobs map[string]*model.Job

	SaveFunc     func(ctx context.Context, tx repository.Tx, job *model.Job) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Job, error)

	Saves int
}

var _ repository.JobRepository = (*MockJobRepo)(nil)

func NewMockJobRepo() *MockJobRepo {
	return &MockJobRepo{Jobs: make(map[string]*model.Job)}
}

func (m *MockJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.Job) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	cp := *job
	m.Jobs[job.ID] = &cp
	return nil
}

func (m *MockJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.Jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *MockJobRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string, offset, limit int) ([]*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Job
	for _, j := range m.Jobs {
		if j.UserID == userID {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockJobRepo) FetchAndMarkRunning(ctx context.Context) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest *model.Job
	for _, j := range m.Jobs {
		if j.Status != model.JobStatusQueued {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest == nil {
		return nil, domain.ErrNotFound
	}
	oldest.MarkRunning()
	cp := *oldest
	return &cp, nil
}

func (m *MockJobRepo) Get(id string) *model.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Jobs[id]
}

// ---- Mock ArtifactRepository ----

type MockArtifactRepo struct {
	mu        sync.Mutex
	Artifacts []*model.Artifact

	SaveFunc func(ctx context.Context, tx repository.Tx, artifact *model.Artifact) error
}

var _ repository.ArtifactRepository = (*MockArtifactRepo)(nil)

func (m *MockArtifactRepo) Save(ctx context.Context, tx repository.Tx, artifact *model.Artifact) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, artifact)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Artifacts = append(m.Artifacts, artifact)
	return nil
}

func (m *MockArtifactRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Artifacts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockArtifactRepo) FindByJob(ctx context.Context, tx repository.Tx, jobID string) ([]*model.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Artifact
	for _, a := range m.Artifacts {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockArtifactRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string, offset, limit int) ([]*model.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Artifact
	for _, a := range m.Artifacts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---- Mock EventLogRepository ----

type MockEventLog struct {
	mu      sync.Mutex
	Entries []*model.EventLogEntry

	AppendFunc func(ctx context.Context, entry *model.EventLogEntry) error
}

var _ repository.EventLogRepository = (*MockEventLog)(nil)

func (m *MockEventLog) Append(ctx context.Context, entry *model.EventLogEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

// ---- Mock ConversationRepository ----

type MockConversationRepo struct {
	mu            sync.Mutex
	Conversations map[string]*model.Conversation

	SaveMessageFunc func(ctx context.Context, tx repository.Tx, message *model.ChatMessage) error
}

var _ repository.ConversationRepository = (*MockConversationRepo)(nil)

func NewMockConversationRepo() *MockConversationRepo {
	return &MockConversationRepo{Conversations: make(map[string]*model.Conversation)}
}

func (m *MockConversationRepo) Save(ctx context.Context, tx repository.Tx, c *model.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Conversations[c.ID] = c
	return nil
}

func (m *MockConversationRepo) SaveMessage(ctx context.Context, tx repository.Tx, msg *model.ChatMessage) error {
	if m.SaveMessageFunc != nil {
		return m.SaveMessageFunc(ctx, tx, msg)
	}
	return nil
}

func (m *MockConversationRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Conversations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Conversations, id)
	return nil
}

func (m *MockConversationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *MockConversationRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Conversation
	for _, c := range m.Conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockConversationRepo) UpdateTitle(ctx context.Context, tx repository.Tx, id, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Conversations[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Title = title
	return nil
}

// =============================
// Adapters
// =============================

// ---- Mock CompletionGateway ----

type MockGateway struct {
	mu sync.Mutex

	CompleteFunc       func(ctx context.Context, mode string, msgs []adapter.Message) (string, adapter.Usage, error)
	StreamCompleteFunc func(ctx context.Context, mode string, msgs []adapter.Message) (adapter.CompletionStream, error)
	CountTokensFunc    func(ctx context.Context, mode string, msgs []adapter.Message) (int, error)

	Calls struct {
		Complete []string // modes
		Stream   []string
	}
	LastMessages []adapter.Message
}

var _ adapter.CompletionGateway = (*MockGateway)(nil)

func (m *MockGateway) Complete(ctx context.Context, mode string, msgs []adapter.Message) (string, adapter.Usage, error) {
	m.mu.Lock()
	m.Calls.Complete = append(m.Calls.Complete, mode)
	m.LastMessages = msgs
	m.mu.Unlock()
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, mode, msgs)
	}
	return "ok", adapter.Usage{}, nil
}

func (m *MockGateway) StreamComplete(ctx context.Context, mode string, msgs []adapter.Message) (adapter.CompletionStream, error) {
	m.mu.Lock()
	m.Calls.Stream = append(m.Calls.Stream, mode)
	m.LastMessages = msgs
	m.mu.Unlock()
	if m.StreamCompleteFunc != nil {
		return m.StreamCompleteFunc(ctx, mode, msgs)
	}
	return NewMockStream("ok"), nil
}

func (m *MockGateway) CountTokens(ctx context.Context, mode string, msgs []adapter.Message) (int, error) {
	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(ctx, mode, msgs)
	}
	n := 0
	for _, msg := range msgs {
		n += len(msg.Content) / 4
	}
	return n, nil
}

// ---- Mock CompletionStream ----

// MockStream replays a fixed sequence of deltas, then the configured
// terminal error (io.EOF by default).
type MockStream struct {
	Deltas   []string
	Terminal error

	pos    int
	Closed bool
}

var _ adapter.CompletionStream = (*MockStream)(nil)

func NewMockStream(deltas ...string) *MockStream {
	return &MockStream{Deltas: deltas, Terminal: io.EOF}
}

func (s *MockStream) Recv() (string, error) {
	if s.pos >= len(s.Deltas) {
		return "", s.Terminal
	}
	d := s.Deltas[s.pos]
	s.pos++
	return d, nil
}

func (s *MockStream) Close() error {
	s.Closed = true
	return nil
}

// ---- Mock UsageUseCase ----

type MockUsage struct {
	Status   usecase.UsageStatus
	CheckErr error

	mu       sync.Mutex
	Recorded int
}

var _ usecase.UsageUseCase = (*MockUsage)(nil)

func NewMockUsage() *MockUsage {
	return &MockUsage{Status: usecase.UsageStatus{CanProceed: true, DailyLimit: 100000, Remaining: 100000, Plan: "free"}}
}

func (m *MockUsage) Check(ctx context.Context, userID string) (*usecase.UsageStatus, error) {
	if m.CheckErr != nil {
		return nil, m.CheckErr
	}
	st := m.Status
	return &st, nil
}

func (m *MockUsage) Record(ctx context.Context, userID string, tokens int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recorded += tokens
	return nil
}
