package model

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is the persisted output document of a completed job.
// It is written once and never updated.
type Artifact struct {
	ID        string
	UserID    string
	ProjectID string
	JobID     string
	Type      string
	Title     string
	Content   string
	Metadata  map[string]any
	CreatedAt time.Time
}

func NewArtifact(userID, projectID, jobID, kind, title, content string, metadata map[string]any) *Artifact {
	return &Artifact{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: projectID,
		JobID:     jobID,
		Type:      kind,
		Title:     title,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}
