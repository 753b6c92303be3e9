package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rapidphoto/uploader-go/internal/mock"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/task"
	msuuid "github.com/rapidphoto/uploader-go/internal/uuid"
)

func TestProcessPhotoHandler_InvalidID(t *testing.T) {
	svc := &mock.PhotoProcessor{}
	err := ProcessPhotoHandler(context.Background(), task.ProcessPhotoPayload{PhotoID: "invalid"}, svc)
	if err == nil {
		t.Fatal("expected error for invalid UUID")
	}
	if svc.Called {
		t.Error("service should not be called on invalid id")
	}
}

func TestProcessPhotoHandler_ServiceError(t *testing.T) {
	id := msuuid.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	svcErr := errors.New("svc fail")
	svc := &mock.PhotoProcessor{Err: svcErr}

	err := ProcessPhotoHandler(context.Background(), task.ProcessPhotoPayload{PhotoID: id.String()}, svc)
	if !errors.Is(err, svcErr) {
		t.Fatalf("got error %v; want %v", err, svcErr)
	}
	if svc.ID != id {
		t.Errorf("service got id %s; want %s", svc.ID, id)
	}
}

func TestProcessPhotoHandler_Success(t *testing.T) {
	id := msuuid.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	svc := &mock.PhotoProcessor{}

	err := ProcessPhotoHandler(context.Background(), task.ProcessPhotoPayload{PhotoID: id.String()}, svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Called {
		t.Error("service not called")
	}
}

func TestRetrySweepHandler(t *testing.T) {
	svc := &mock.RetrySweeper{Out: port.RetrySweepOutput{SuccessCount: 2, FailCount: 1}}
	if err := RetrySweepHandler(context.Background(), svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Called {
		t.Error("sweeper not called")
	}

	svcErr := errors.New("db down")
	failing := &mock.RetrySweeper{Err: svcErr}
	if err := RetrySweepHandler(context.Background(), failing); !errors.Is(err, svcErr) {
		t.Fatalf("got error %v; want %v", err, svcErr)
	}
}
