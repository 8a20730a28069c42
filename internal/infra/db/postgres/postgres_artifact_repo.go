package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/model"
	"aiblty-platform/internal/domain/ports/repository"
)

var _ repository.ArtifactRepository = (*artifactRepo)(nil)

type artifactRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactRepo(pool *pgxpool.Pool) *artifactRepo {
	return &artifactRepo{pool: pool}
}

const artifactColumns = `id, user_id, project_id, job_id, type, title, content, metadata, created_at`

func (r *artifactRepo) Save(ctx context.Context, tx repository.Tx, a *model.Artifact) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	metadata, err := toJSONB(a.Metadata)
	if err != nil {
		return err
	}

	// Plain insert: artifacts are immutable once written.
	const q = `
INSERT INTO artifacts (id, user_id, project_id, job_id, type, title, content, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	_, err = execSQL(ctx, r.pool, tx, q,
		a.ID, a.UserID, nullStr(a.ProjectID), nullStr(a.JobID), a.Type, a.Title, a.Content, metadata, a.CreatedAt)
	return err
}

func (r *artifactRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Artifact, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+artifactColumns+` FROM artifacts WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return scanArtifact(row)
}

func (r *artifactRepo) FindByJob(ctx context.Context, tx repository.Tx, jobID string) ([]*model.Artifact, error) {
	rows, err := pickRows(ctx, r.pool, tx,
		`SELECT `+artifactColumns+` FROM artifacts WHERE job_id = $1 ORDER BY created_at`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArtifacts(rows)
}

func (r *artifactRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string, offset, limit int) ([]*model.Artifact, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := pickRows(ctx, r.pool, tx,
		`SELECT `+artifactColumns+` FROM artifacts WHERE user_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		userID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArtifacts(rows)
}

func collectArtifacts(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]*model.Artifact, error) {
	var out []*model.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanArtifact(row rowScanner) (*model.Artifact, error) {
	var (
		a         model.Artifact
		projectID *string
		jobID     *string
		metadata  []byte
	)
	err := row.Scan(&a.ID, &a.UserID, &projectID, &jobID, &a.Type, &a.Title, &a.Content, &metadata, &a.CreatedAt)
	if err != nil {
		return nil, translateScanErr(err)
	}
	if projectID != nil {
		a.ProjectID = *projectID
	}
	if jobID != nil {
		a.JobID = *jobID
	}
	if a.Metadata, err = fromJSONB(metadata); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &a, nil
}
