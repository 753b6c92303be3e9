package keygen

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// Generator derives storage keys of the form
// {userId}/{yyyy}/{MM}/{dd}/{uuid}-{filename}. The date segments keep keys
// sortable per user, the uuid segment makes them collision-resistant.
type Generator struct {
	newUUID func() uuid.UUID
	now     func() time.Time
}

// compile-time check: *Generator must satisfy port.KeyGenerator
var _ port.KeyGenerator = (*Generator)(nil)

func New() *Generator {
	return &Generator{newUUID: uuid.NewUUID, now: time.Now}
}

// NewWithDeps lets tests pin the uuid and clock.
func NewWithDeps(newUUID func() uuid.UUID, now func() time.Time) *Generator {
	return &Generator{newUUID: newUUID, now: now}
}

func (g *Generator) Generate(userID uuid.UUID, filename string) string {
	t := g.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s-%s",
		userID, t.Year(), int(t.Month()), t.Day(), g.newUUID(), sanitizeFilename(filename))
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeFilename(filename string) string {
	if filename == "" {
		return "unnamed"
	}
	return unsafeChars.ReplaceAllString(filename, "_")
}

// ThumbnailKey derives the thumbnail object key from the original: "_thumb" is
// inserted before the last extension, or appended when there is none. The same
// rule is used when writing the thumbnail and when presigning it for reads.
func ThumbnailKey(key string) string {
	ext := path.Ext(key)
	if ext == "" {
		return key + "_thumb"
	}
	return strings.TrimSuffix(key, ext) + "_thumb" + ext
}
