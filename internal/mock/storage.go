package mock

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rapidphoto/uploader-go/internal/port"
)

type noopRSC struct{ io.ReadSeeker }

func (noopRSC) Close() error { return nil }

// Storage implements the storage gateway for tests.
type Storage struct {
	mu sync.Mutex

	// stored values
	StatInfoOut port.FileInfo
	GetOut      []byte
	ExistsOut   bool
	UploadIDOut string

	// FailUploadURLForKeySubstr makes GeneratePresignedUploadURL fail for any
	// key containing this substring; other keys succeed.
	FailUploadURLForKeySubstr string

	// captured inputs
	ObjectKey     string
	TTL           time.Duration
	SavedKeys     []string
	SavedBodies   map[string][]byte
	PresignedKeys []string

	// errors
	GenerateUploadLinkErr   error
	GenerateDownloadLinkErr error
	ExistsErr               error
	StatErr                 error
	GetErr                  error
	SaveErr                 error
	RemoveErr               error
	MultipartErr            error

	// call flags
	GenerateUploadLinkCalled   bool
	GenerateDownloadLinkCalled bool
	ExistsCalled               bool
	StatCalled                 bool
	GetCalled                  bool
	SaveCalled                 bool
	RemoveCalled               bool
	BeginMultipartCalled       bool
	CompleteMultipartCalled    bool
	AbortMultipartCalled       bool
}

var _ port.Storage = (*Storage)(nil)

func (m *Storage) GeneratePresignedUploadURL(ctx context.Context, fileKey, contentType string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateUploadLinkCalled = true
	m.ObjectKey = fileKey
	m.TTL = expiry
	m.PresignedKeys = append(m.PresignedKeys, fileKey)
	if m.GenerateUploadLinkErr != nil {
		return "", m.GenerateUploadLinkErr
	}
	if m.FailUploadURLForKeySubstr != "" && strings.Contains(fileKey, m.FailUploadURLForKeySubstr) {
		return "", port.ErrStorageUnavailable
	}
	return "https://example.com/upload/" + fileKey, nil
}

func (m *Storage) GeneratePresignedDownloadURL(ctx context.Context, fileKey string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateDownloadLinkCalled = true
	m.ObjectKey = fileKey
	m.TTL = expiry
	m.PresignedKeys = append(m.PresignedKeys, fileKey)
	if m.GenerateDownloadLinkErr != nil {
		return "", m.GenerateDownloadLinkErr
	}
	return "https://example.com/download/" + fileKey, nil
}

func (m *Storage) FileExists(ctx context.Context, fileKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistsCalled = true
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.ExistsOut, nil
}

func (m *Storage) StatFile(ctx context.Context, fileKey string) (port.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatCalled = true
	if m.StatErr != nil {
		return port.FileInfo{}, m.StatErr
	}
	return m.StatInfoOut, nil
}

func (m *Storage) GetFile(ctx context.Context, fileKey string) (io.ReadSeekCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	data := m.GetOut
	if data == nil {
		data = []byte("dummy")
	}
	return noopRSC{bytes.NewReader(data)}, nil
}

func (m *Storage) SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalled = true
	if m.SaveErr != nil {
		return m.SaveErr
	}
	body, _ := io.ReadAll(reader)
	if m.SavedBodies == nil {
		m.SavedBodies = make(map[string][]byte)
	}
	m.SavedKeys = append(m.SavedKeys, fileKey)
	m.SavedBodies[fileKey] = body
	return nil
}

func (m *Storage) RemoveFile(ctx context.Context, fileKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveCalled = true
	return m.RemoveErr
}

func (m *Storage) BeginMultipartUpload(ctx context.Context, fileKey, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BeginMultipartCalled = true
	if m.MultipartErr != nil {
		return "", m.MultipartErr
	}
	if m.UploadIDOut != "" {
		return m.UploadIDOut, nil
	}
	return "upload-id", nil
}

func (m *Storage) PresignPartURL(ctx context.Context, fileKey, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MultipartErr != nil {
		return "", m.MultipartErr
	}
	return "https://example.com/part/" + fileKey, nil
}

func (m *Storage) CompleteMultipartUpload(ctx context.Context, fileKey, uploadID string, parts []port.Part) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteMultipartCalled = true
	return m.MultipartErr
}

func (m *Storage) AbortMultipartUpload(ctx context.Context, fileKey, uploadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AbortMultipartCalled = true
	return m.MultipartErr
}

// Saved reports whether SaveFile was called for the given key.
func (m *Storage) Saved(fileKey string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.SavedBodies[fileKey]
	return ok
}
