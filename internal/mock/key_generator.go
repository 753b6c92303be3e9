package mock

import (
	"sync"

	"github.com/rapidphoto/uploader-go/internal/uuid"
)

// KeyGen derives deterministic storage keys for tests.
type KeyGen struct {
	mu        sync.Mutex
	Generated []string
}

func (m *KeyGen) Generate(userID uuid.UUID, filename string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "keys/" + userID.String() + "/" + filename
	m.Generated = append(m.Generated, key)
	return key
}
