package mock

import (
	"context"
	"sync"

	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// PhotoRepo implements photo persistence for tests.
type PhotoRepo struct {
	mu sync.Mutex

	PhotoRecord *model.Photo
	ListOut     []model.Photo

	GetErr          error
	GetByKeyErr     error
	CreateErr       error
	UpdateErr       error
	ListErr         error
	UpdateErrAfter  int // fail Update only after this many successful calls; 0 means always when UpdateErr set
	updateSuccesses int

	GetCalled      bool
	GetByKeyCalled bool
	ListCalled     bool
	CreatedAll     []*model.Photo
	UpdatedAll     []*model.Photo
	GotKey         string
	ListUserID     uuid.UUID
}

func (m *PhotoRepo) Create(ctx context.Context, photo *model.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	copied := *photo
	m.CreatedAll = append(m.CreatedAll, &copied)
	return nil
}

func (m *PhotoRepo) Update(ctx context.Context, photo *model.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil && m.updateSuccesses >= m.UpdateErrAfter {
		return m.UpdateErr
	}
	m.updateSuccesses++
	copied := *photo
	m.UpdatedAll = append(m.UpdatedAll, &copied)
	if m.PhotoRecord != nil && m.PhotoRecord.ID == photo.ID {
		m.PhotoRecord = &copied
	}
	return nil
}

func (m *PhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	copied := *m.PhotoRecord
	return &copied, nil
}

func (m *PhotoRepo) GetByStorageKey(ctx context.Context, storageKey string) (*model.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetByKeyCalled = true
	m.GotKey = storageKey
	if m.GetByKeyErr != nil {
		return nil, m.GetByKeyErr
	}
	copied := *m.PhotoRecord
	return &copied, nil
}

func (m *PhotoRepo) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalled = true
	m.ListUserID = userID
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

// LastUpdated returns the most recent photo passed to Update, or nil.
func (m *PhotoRepo) LastUpdated() *model.Photo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.UpdatedAll) == 0 {
		return nil
	}
	return m.UpdatedAll[len(m.UpdatedAll)-1]
}
