package repository

import (
	"context"

	"aiblty-platform/internal/domain/model"
)

type JobRepository interface {
	// Save upserts the whole record; last write wins.
	Save(ctx context.Context, tx Tx, job *model.Job) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Job, error)
	FindByUser(ctx context.Context, tx Tx, userID string, offset, limit int) ([]*model.Job, error)
	// FetchAndMarkRunning atomically claims the oldest queued job and marks it
	// running, so concurrent workers never pick up the same job.
	FetchAndMarkRunning(ctx context.Context) (*model.Job, error)
}
