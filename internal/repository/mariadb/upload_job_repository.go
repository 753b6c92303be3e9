package mariadb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

type UploadJobRepository struct {
	db *sql.DB
}

// compile-time check: *UploadJobRepository must satisfy port.UploadJobRepository
var _ port.UploadJobRepository = (*UploadJobRepository)(nil)

func NewUploadJobRepository(db *sql.DB) *UploadJobRepository {
	return &UploadJobRepository{db: db}
}

const jobColumns = "id, photo_id, user_id, status, attempt_count, error_message, version, created_at, updated_at"

func (r *UploadJobRepository) Create(ctx context.Context, job *model.UploadJob) error {
	logger.Debugf(ctx, "creating database record for upload job #%s, at status %q...", job.ID, job.Status)

	const query = `
      INSERT INTO upload_jobs
        (id, photo_id, user_id, status, attempt_count, error_message, version)
      VALUES (?, ?, ?, ?, ?, ?, 0)
    `
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.PhotoID, job.UserID,
		job.Status, job.AttemptCount, job.ErrorMessage,
	)
	if err != nil {
		return err
	}
	job.Version = 0

	return nil
}

// Update is version-guarded like PhotoRepository.Update: zero rows affected
// means another writer got there first and the caller holds stale state.
func (r *UploadJobRepository) Update(ctx context.Context, job *model.UploadJob) error {
	logger.Debugf(ctx, "updating database record for upload job #%s, with status %q...", job.ID, job.Status)

	const query = `
      UPDATE upload_jobs
      SET
        status        = ?,
        attempt_count = ?,
        error_message = ?,
        version       = version + 1
      WHERE id = ? AND version = ?
    `
	res, err := r.db.ExecContext(ctx, query,
		job.Status,
		job.AttemptCount,
		job.ErrorMessage,
		job.ID,
		job.Version,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("upload job #%s: %w", job.ID, port.ErrStaleRecord)
	}
	job.Version++

	return nil
}

func (r *UploadJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.UploadJob, error) {
	const query = `SELECT ` + jobColumns + ` FROM upload_jobs WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UploadJobRepository) GetByPhotoID(ctx context.Context, photoID uuid.UUID) (*model.UploadJob, error) {
	const query = `SELECT ` + jobColumns + ` FROM upload_jobs WHERE photo_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, photoID))
}

func (r *UploadJobRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.UploadJob, error) {
	const query = `
      SELECT ` + jobColumns + `
      FROM upload_jobs
      WHERE user_id = ?
      ORDER BY created_at DESC, id DESC
      LIMIT ? OFFSET ?
    `
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]model.UploadJob, 0)
	for rows.Next() {
		var job model.UploadJob
		if err := rows.Scan(
			&job.ID, &job.PhotoID, &job.UserID,
			&job.Status, &job.AttemptCount, &job.ErrorMessage,
			&job.Version, &job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListRetryable returns every failed job still under the attempt ceiling,
// oldest first so starved jobs get swept before fresh failures.
func (r *UploadJobRepository) ListRetryable(ctx context.Context, maxAttempts int) ([]model.UploadJob, error) {
	const query = `
      SELECT ` + jobColumns + `
      FROM upload_jobs
      WHERE status = ? AND attempt_count < ?
      ORDER BY updated_at ASC
    `
	rows, err := r.db.QueryContext(ctx, query, model.UploadStatusFailed, maxAttempts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]model.UploadJob, 0)
	for rows.Next() {
		var job model.UploadJob
		if err := rows.Scan(
			&job.ID, &job.PhotoID, &job.UserID,
			&job.Status, &job.AttemptCount, &job.ErrorMessage,
			&job.Version, &job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *UploadJobRepository) scanOne(row *sql.Row) (*model.UploadJob, error) {
	var job model.UploadJob
	if err := row.Scan(
		&job.ID, &job.PhotoID, &job.UserID,
		&job.Status, &job.AttemptCount, &job.ErrorMessage,
		&job.Version, &job.CreatedAt, &job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}
