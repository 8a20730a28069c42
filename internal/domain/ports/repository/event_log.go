package repository

import (
	"context"

	"aiblty-platform/internal/domain/model"
)

// EventLogRepository is append-only; entries are never updated or deleted.
type EventLogRepository interface {
	Append(ctx context.Context, entry *model.EventLogEntry) error
}
