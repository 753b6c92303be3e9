package upload

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/rapidphoto/uploader-go/internal/keygen"
	"github.com/rapidphoto/uploader-go/internal/mock"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

func newProcessFixture() *mock.PhotoRepo {
	return &mock.PhotoRepo{
		PhotoRecord: &model.Photo{
			ID:          uuid.NewUUID(),
			UserID:      uuid.NewUUID(),
			Filename:    "x.jpg",
			ContentType: "image/jpeg",
			SizeBytes:   1024000,
			StorageKey:  "u/1/x.jpg",
			Status:      model.PhotoStatusUploading,
			Tags:        model.Tags{"sunset"},
		},
	}
}

func TestProcessPhoto_Pipeline(t *testing.T) {
	photos := newProcessFixture()
	strg := &mock.Storage{ExistsOut: true, GetOut: []byte("raw image bytes")}
	proc := &mock.ImageProcessor{}
	cache := &mock.Cache{}
	svc := NewPhotoProcessor(photos, strg, proc, nil, cache)

	photoID := photos.PhotoRecord.ID
	if err := svc.ProcessPhoto(context.Background(), photoID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(photos.UpdatedAll) < 2 {
		t.Fatalf("expected a processing update then a final one, got %d", len(photos.UpdatedAll))
	}
	if photos.UpdatedAll[0].Status != model.PhotoStatusProcessing {
		t.Errorf("expected the photo marked processing first, got %q", photos.UpdatedAll[0].Status)
	}

	final := photos.LastUpdated()
	if final.Status != model.PhotoStatusComplete {
		t.Errorf("expected final status %q, got %q", model.PhotoStatusComplete, final.Status)
	}
	if final.SizeBytes != int64(len("compressed")) {
		t.Errorf("expected size updated to the compressed size, got %d", final.SizeBytes)
	}

	key := photos.PhotoRecord.StorageKey
	if !strg.Saved(key) {
		t.Error("expected the compressed image written back to the original key")
	}
	if string(strg.SavedBodies[key]) != "compressed" {
		t.Errorf("unexpected body at %q: %q", key, strg.SavedBodies[key])
	}
	thumbKey := keygen.ThumbnailKey(key)
	if !strg.Saved(thumbKey) {
		t.Errorf("expected a thumbnail at %q", thumbKey)
	}
	if string(strg.SavedBodies[thumbKey]) != "thumb" {
		t.Errorf("unexpected thumbnail body: %q", strg.SavedBodies[thumbKey])
	}

	if proc.GotContentType != "image/jpeg" {
		t.Errorf("expected the photo's content type passed through, got %q", proc.GotContentType)
	}
	if proc.GotQuality != CompressionQuality {
		t.Errorf("expected quality %v, got %v", CompressionQuality, proc.GotQuality)
	}
	if proc.GotMaxSize != ThumbnailSize {
		t.Errorf("expected thumbnail bound %d, got %d", ThumbnailSize, proc.GotMaxSize)
	}
	if proc.GotThumbQuality != CompressionQuality {
		t.Errorf("expected thumbnail quality %v, got %v", CompressionQuality, proc.GotThumbQuality)
	}

	if !cache.DeleteCalled {
		t.Error("expected the cached details to be invalidated after processing")
	}
}

func TestProcessPhoto_ObjectNeverAppears(t *testing.T) {
	photos := newProcessFixture()
	strg := &mock.Storage{ExistsOut: false}
	svc := NewPhotoProcessor(photos, strg, &mock.ImageProcessor{}, nil, &mock.Cache{})

	err := svc.ProcessPhoto(context.Background(), photos.PhotoRecord.ID)
	if !errors.Is(err, port.ErrConsistencyTimeout) {
		t.Fatalf("expected ErrConsistencyTimeout, got %v", err)
	}

	if photos.LastUpdated().Status != model.PhotoStatusFailed {
		t.Errorf("expected the photo marked failed, got %q", photos.LastUpdated().Status)
	}
	if strg.SaveCalled {
		t.Error("nothing should be written when the object is missing")
	}
}

func TestProcessPhoto_CompressFailure(t *testing.T) {
	photos := newProcessFixture()
	strg := &mock.Storage{ExistsOut: true}
	proc := &mock.ImageProcessor{CompressErr: errors.New("corrupt stream")}
	cache := &mock.Cache{}
	svc := NewPhotoProcessor(photos, strg, proc, nil, cache)

	if err := svc.ProcessPhoto(context.Background(), photos.PhotoRecord.ID); err == nil {
		t.Fatal("expected an error")
	}

	if photos.LastUpdated().Status != model.PhotoStatusFailed {
		t.Errorf("expected the photo marked failed, got %q", photos.LastUpdated().Status)
	}
	if strg.SaveCalled {
		t.Error("a failed compression must not overwrite the original")
	}
	if !cache.DeleteCalled {
		t.Error("expected stale cached details to be invalidated on failure too")
	}
}

func TestProcessPhoto_TaggerMergesTags(t *testing.T) {
	photos := newProcessFixture()
	strg := &mock.Storage{ExistsOut: true}
	tagger := &mock.Tagger{TagsOut: []string{"beach", "sunset"}}
	svc := NewPhotoProcessor(photos, strg, &mock.ImageProcessor{}, tagger, &mock.Cache{})

	if err := svc.ProcessPhoto(context.Background(), photos.PhotoRecord.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !tagger.Called {
		t.Fatal("expected the tagger to run")
	}

	tags := photos.LastUpdated().Tags
	if !tags.Has("sunset") || !tags.Has("beach") {
		t.Errorf("expected generated tags merged with existing ones, got %v", tags)
	}
	if len(tags) != 2 {
		t.Errorf("expected duplicates collapsed, got %v", tags)
	}
}

func TestProcessPhoto_NilTaggerSkipsTagging(t *testing.T) {
	photos := newProcessFixture()
	svc := NewPhotoProcessor(photos, &mock.Storage{ExistsOut: true}, &mock.ImageProcessor{}, nil, &mock.Cache{})

	if err := svc.ProcessPhoto(context.Background(), photos.PhotoRecord.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	tags := photos.LastUpdated().Tags
	if len(tags) != 1 || !tags.Has("sunset") {
		t.Errorf("expected tags untouched, got %v", tags)
	}
}

func TestProcessPhoto_DuplicateRunSkipped(t *testing.T) {
	photos := newProcessFixture()
	svc := NewPhotoProcessor(photos, &mock.Storage{ExistsOut: true}, &mock.ImageProcessor{}, nil, &mock.Cache{}).(*photoProcessorSrv)

	photoID := photos.PhotoRecord.ID
	if !svc.begin(photoID) {
		t.Fatal("first begin should win the slot")
	}

	if err := svc.ProcessPhoto(context.Background(), photoID); err != nil {
		t.Fatalf("a duplicate run must be a silent no-op, got %v", err)
	}
	if photos.GetCalled {
		t.Error("a duplicate run must not touch the repository")
	}

	svc.end(photoID)
	if !svc.begin(photoID) {
		t.Error("the slot should be free again after end")
	}
}

func TestProcessPhoto_NotFound(t *testing.T) {
	photos := &mock.PhotoRepo{GetErr: sql.ErrNoRows}
	svc := NewPhotoProcessor(photos, &mock.Storage{}, &mock.ImageProcessor{}, nil, &mock.Cache{})

	err := svc.ProcessPhoto(context.Background(), uuid.NewUUID())
	if !errors.Is(err, port.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
