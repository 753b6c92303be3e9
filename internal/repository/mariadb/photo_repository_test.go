package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	guuid "github.com/google/uuid"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

var testPhotoID = uuid.UUID(guuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
var testUserID = uuid.UUID(guuid.MustParse("11111111-2222-3333-4444-555555555555"))

func TestPhotoRepository_Create_Success(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewPhotoRepository(sqlDB)

	photo := &model.Photo{
		ID:          testPhotoID,
		UserID:      testUserID,
		Filename:    "beach.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   12345,
		StorageKey:  "u/2026/01/02/abc-beach.jpg",
		Status:      model.PhotoStatusUploading,
		Tags:        model.Tags{},
	}

	mock.ExpectExec(regexp.QuoteMeta(`
      INSERT INTO photos
        (id, user_id, filename, content_type, size_bytes, storage_key, status, tags, version)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
    `)).
		WithArgs(
			photo.ID,
			photo.UserID,
			photo.Filename,
			photo.ContentType,
			photo.SizeBytes,
			photo.StorageKey,
			photo.Status,
			sqlmock.AnyArg(), // Tags
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), photo); err != nil {
		t.Errorf("Create() returned unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPhotoRepository_Update_BumpsVersion(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewPhotoRepository(sqlDB)

	photo := &model.Photo{
		ID:        testPhotoID,
		SizeBytes: 999,
		Status:    model.PhotoStatusComplete,
		Tags:      model.Tags{"sunset"},
		Version:   3,
	}

	mock.ExpectExec("UPDATE photos").
		WithArgs(photo.SizeBytes, photo.Status, sqlmock.AnyArg(), photo.ID, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), photo); err != nil {
		t.Fatalf("Update() returned unexpected error: %v", err)
	}
	if photo.Version != 4 {
		t.Errorf("expected in-memory version bump to 4, got %d", photo.Version)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPhotoRepository_Update_Stale(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewPhotoRepository(sqlDB)

	photo := &model.Photo{ID: testPhotoID, Status: model.PhotoStatusComplete, Version: 1}

	mock.ExpectExec("UPDATE photos").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), photo)
	if !errors.Is(err, port.ErrStaleRecord) {
		t.Fatalf("expected ErrStaleRecord, got %v", err)
	}
	if photo.Version != 1 {
		t.Errorf("version must not be bumped on a stale write, got %d", photo.Version)
	}
}

func TestPhotoRepository_GetByID(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewPhotoRepository(sqlDB)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "filename", "content_type", "size_bytes", "storage_key", "status", "tags", "version", "created_at", "updated_at"}).
		AddRow(testPhotoID, testUserID, "beach.jpg", "image/jpeg", int64(12345), "u/key.jpg", "complete", []byte(`["sunset"]`), int64(2), now, now)

	mock.ExpectQuery("SELECT (.+) FROM photos WHERE id = ?").
		WithArgs(testPhotoID).
		WillReturnRows(rows)

	photo, err := repo.GetByID(context.Background(), testPhotoID)
	if err != nil {
		t.Fatalf("GetByID() returned unexpected error: %v", err)
	}
	if photo.Status != model.PhotoStatusComplete {
		t.Errorf("expected status complete, got %q", photo.Status)
	}
	if !photo.Tags.Has("sunset") {
		t.Errorf("expected tags to contain %q, got %v", "sunset", photo.Tags)
	}
	if photo.Version != 2 {
		t.Errorf("expected version 2, got %d", photo.Version)
	}
}

func TestPhotoRepository_GetByID_NotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewPhotoRepository(sqlDB)

	mock.ExpectQuery("SELECT (.+) FROM photos WHERE id = ?").
		WithArgs(testPhotoID).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), testPhotoID)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows to bubble up raw, got %v", err)
	}
}

func TestPhotoRepository_ListByUserID(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewPhotoRepository(sqlDB)

	now := time.Now()
	cols := []string{"id", "user_id", "filename", "content_type", "size_bytes", "storage_key", "status", "tags", "version", "created_at", "updated_at"}
	rows := sqlmock.NewRows(cols).
		AddRow(testPhotoID, testUserID, "a.jpg", "image/jpeg", int64(1), "k1", "complete", []byte(`[]`), int64(0), now, now).
		AddRow(uuid.UUID(guuid.New()), testUserID, "b.png", "image/png", int64(2), "k2", "processing", []byte(`[]`), int64(1), now, now)

	mock.ExpectQuery("SELECT (.+) FROM photos").
		WithArgs(testUserID, 20, 40).
		WillReturnRows(rows)

	photos, err := repo.ListByUserID(context.Background(), testUserID, 20, 40)
	if err != nil {
		t.Fatalf("ListByUserID() returned unexpected error: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if photos[1].Status != model.PhotoStatusProcessing {
		t.Errorf("expected second photo processing, got %q", photos[1].Status)
	}
}
