package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/udisondev/statforge/internal/entity"
)

// MockStore: in-memory имплементация db.EntityStatStore для unit тестов.
// Не требует реальной БД. Err, если задан, возвращается всеми методами.
type MockStore struct {
	mu      sync.RWMutex
	configs map[string][]entity.StatConfig
	Err     error
}

// NewMockStore создаёт новый MockStore экземпляр.
func NewMockStore() *MockStore {
	return &MockStore{configs: make(map[string][]entity.StatConfig)}
}

func (m *MockStore) LoadByEntity(_ context.Context, entityID string) ([]entity.StatConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]entity.StatConfig(nil), m.configs[entityID]...), nil
}

func (m *MockStore) Save(_ context.Context, entityID string, configs []entity.StatConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	out := make([]entity.StatConfig, 0, len(configs))
	for _, c := range configs {
		c.EntityID = entityID
		out = append(out, c)
	}
	m.configs[entityID] = out
	return nil
}

func (m *MockStore) Delete(_ context.Context, entityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.configs, entityID)
	return nil
}

func (m *MockStore) EntityIDs(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	ids := make([]string, 0, len(m.configs))
	for id := range m.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
