package api_context

import (
	"context"

	"github.com/rapidphoto/uploader-go/internal/uuid"
)

type ctxKey string

const (
	PhotoIDKey     ctxKey = "photoID"
	UploadJobIDKey ctxKey = "uploadJobID"
	AuthUserIDKey  ctxKey = "authUserID"
	AuthRolesKey   ctxKey = "authRoles"
)

func PhotoIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(PhotoIDKey).(uuid.UUID)
	return id, ok
}

func UploadJobIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UploadJobIDKey).(uuid.UUID)
	return id, ok
}

func AuthUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(uuid.UUID)
	return id, ok
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}
