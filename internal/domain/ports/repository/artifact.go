package repository

import (
	"context"

	"aiblty-platform/internal/domain/model"
)

type ArtifactRepository interface {
	// Save inserts a new artifact. Artifacts are immutable once written.
	Save(ctx context.Context, tx Tx, artifact *model.Artifact) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Artifact, error)
	FindByJob(ctx context.Context, tx Tx, jobID string) ([]*model.Artifact, error)
	FindByUser(ctx context.Context, tx Tx, userID string, offset, limit int) ([]*model.Artifact, error)
}
