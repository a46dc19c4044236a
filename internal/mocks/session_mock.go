package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/hostel-management/hostel-service/internal/core/ports"
)

// MockSessionStore keeps sessions in a map.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string

	SaveCalls   []string
	RevokeCalls []string

	SaveError   error
	ActiveError error
	RevokeError error
	PingError   error
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]string)}
}

func (m *MockSessionStore) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, tokenID)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.sessions[tokenID] = userID
	return nil
}

func (m *MockSessionStore) Active(ctx context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ActiveError != nil {
		return false, m.ActiveError
	}
	_, ok := m.sessions[tokenID]
	return ok, nil
}

func (m *MockSessionStore) Revoke(ctx context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RevokeCalls = append(m.RevokeCalls, tokenID)
	if m.RevokeError != nil {
		return m.RevokeError
	}
	delete(m.sessions, tokenID)
	return nil
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	return m.PingError
}

// Count returns the number of live sessions.
func (m *MockSessionStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
