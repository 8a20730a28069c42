package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"aiblty-platform/internal/domain/model"
	"aiblty-platform/internal/domain/ports/repository"
)

var _ repository.EventLogRepository = (*eventLogRepo)(nil)

type eventLogRepo struct {
	pool *pgxpool.Pool
}

func NewEventLogRepo(pool *pgxpool.Pool) *eventLogRepo {
	return &eventLogRepo{pool: pool}
}

func (r *eventLogRepo) Append(ctx context.Context, e *model.EventLogEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	meta, err := toJSONB(e.Meta)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO event_log (id, level, source, message, meta, user_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err = execSQL(ctx, r.pool, nil, q,
		uuid.NewString(), string(e.Level), e.Source, e.Message, meta, nullStr(e.UserID), e.CreatedAt)
	return err
}
