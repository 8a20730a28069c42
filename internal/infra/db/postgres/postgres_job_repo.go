package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/model"
	"aiblty-platform/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct {
	pool *pgxpool.Pool
	tm   repository.TransactionManager
}

func NewJobRepo(pool *pgxpool.Pool, tm repository.TransactionManager) *jobRepo {
	return &jobRepo{pool: pool, tm: tm}
}

const jobColumns = `id, user_id, project_id, type, status, progress, input, result, error, started_at, finished_at, created_at, updated_at`

func (r *jobRepo) Save(ctx context.Context, tx repository.Tx, job *model.Job) error {
	if job.ID == "" {
		job.ID = ulid.Make().String()
	}
	job.UpdatedAt = time.Now()

	input, err := toJSONB(job.Input)
	if err != nil {
		return err
	}
	result, err := toJSONB(job.Result)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO jobs (id, user_id, project_id, type, status, progress, input, result, error, started_at, finished_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  progress = EXCLUDED.progress,
  result = EXCLUDED.result,
  error = EXCLUDED.error,
  started_at = EXCLUDED.started_at,
  finished_at = EXCLUDED.finished_at,
  updated_at = EXCLUDED.updated_at;`

	_, err = execSQL(ctx, r.pool, tx, q,
		job.ID, job.UserID, nullStr(job.ProjectID), string(job.Type), string(job.Status), job.Progress,
		input, result, job.Error, job.StartedAt, job.FinishedAt, job.CreatedAt, job.UpdatedAt)
	return err
}

func (r *jobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *jobRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string, offset, limit int) ([]*model.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := pickRows(ctx, r.pool, tx,
		`SELECT `+jobColumns+` FROM jobs WHERE user_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		userID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// FetchAndMarkRunning claims the oldest queued job with FOR UPDATE SKIP LOCKED
// so concurrent workers never double-claim.
func (r *jobRepo) FetchAndMarkRunning(ctx context.Context) (*model.Job, error) {
	var job *model.Job

	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		const fetchQuery = `
SELECT ` + jobColumns + `
FROM jobs
WHERE status = 'queued'
ORDER BY created_at
LIMIT 1
FOR UPDATE SKIP LOCKED;`

		row, err := pickRow(ctx, r.pool, tx, fetchQuery)
		if err != nil {
			return err
		}
		fetched, err := scanJob(row)
		if err != nil {
			return err
		}

		fetched.MarkRunning()
		if err := r.Save(ctx, tx, fetched); err != nil {
			return err
		}
		job = fetched
		return nil
	})

	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	return job, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var (
		j         model.Job
		projectID *string
		typeStr   string
		statusStr string
		input     []byte
		result    []byte
	)
	err := row.Scan(
		&j.ID, &j.UserID, &projectID, &typeStr, &statusStr, &j.Progress,
		&input, &result, &j.Error, &j.StartedAt, &j.FinishedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, translateScanErr(err)
	}
	if projectID != nil {
		j.ProjectID = *projectID
	}
	j.Type = model.Capability(typeStr)
	j.Status = model.JobStatus(statusStr)
	if j.Input, err = fromJSONB(input); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if j.Result, err = fromJSONB(result); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &j, nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
