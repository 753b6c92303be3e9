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

type PhotoRepository struct {
	db *sql.DB
}

// compile-time check: *PhotoRepository must satisfy port.PhotoRepository
var _ port.PhotoRepository = (*PhotoRepository)(nil)

func NewPhotoRepository(db *sql.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

const photoColumns = "id, user_id, filename, content_type, size_bytes, storage_key, status, tags, version, created_at, updated_at"

func (r *PhotoRepository) Create(ctx context.Context, photo *model.Photo) error {
	logger.Debugf(ctx, "creating database record for photo #%s, at status %q...", photo.ID, photo.Status)

	const query = `
      INSERT INTO photos
        (id, user_id, filename, content_type, size_bytes, storage_key, status, tags, version)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
    `
	_, err := r.db.ExecContext(ctx, query,
		photo.ID, photo.UserID, photo.Filename,
		photo.ContentType, photo.SizeBytes, photo.StorageKey,
		photo.Status, photo.Tags,
	)
	if err != nil {
		return err
	}
	photo.Version = 0

	return nil
}

// Update writes the record back guarded by its version. A row whose version
// moved since the read is left untouched and port.ErrStaleRecord is returned;
// the caller must re-read and retry.
func (r *PhotoRepository) Update(ctx context.Context, photo *model.Photo) error {
	logger.Debugf(ctx, "updating database record for photo #%s, with status %q...", photo.ID, photo.Status)

	const query = `
      UPDATE photos
      SET
        size_bytes = ?,
        status     = ?,
        tags       = ?,
        version    = version + 1
      WHERE id = ? AND version = ?
    `
	res, err := r.db.ExecContext(ctx, query,
		photo.SizeBytes,
		photo.Status,
		photo.Tags,
		photo.ID,
		photo.Version,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("photo #%s: %w", photo.ID, port.ErrStaleRecord)
	}
	photo.Version++

	return nil
}

func (r *PhotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	const query = `SELECT ` + photoColumns + ` FROM photos WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PhotoRepository) GetByStorageKey(ctx context.Context, storageKey string) (*model.Photo, error) {
	const query = `SELECT ` + photoColumns + ` FROM photos WHERE storage_key = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, storageKey))
}

func (r *PhotoRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Photo, error) {
	const query = `
      SELECT ` + photoColumns + `
      FROM photos
      WHERE user_id = ?
      ORDER BY created_at DESC, id DESC
      LIMIT ? OFFSET ?
    `
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]model.Photo, 0)
	for rows.Next() {
		var photo model.Photo
		if err := rows.Scan(
			&photo.ID, &photo.UserID, &photo.Filename,
			&photo.ContentType, &photo.SizeBytes, &photo.StorageKey,
			&photo.Status, &photo.Tags, &photo.Version,
			&photo.CreatedAt, &photo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func (r *PhotoRepository) scanOne(row *sql.Row) (*model.Photo, error) {
	var photo model.Photo
	if err := row.Scan(
		&photo.ID, &photo.UserID, &photo.Filename,
		&photo.ContentType, &photo.SizeBytes, &photo.StorageKey,
		&photo.Status, &photo.Tags, &photo.Version,
		&photo.CreatedAt, &photo.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &photo, nil
}
