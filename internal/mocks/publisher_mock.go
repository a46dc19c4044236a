// Package mocks provides hand-written implementations of the ports used in
// tests. Each mock records its calls and supports error injection.
package mocks

import (
	"context"
	"sync"

	"github.com/hostel-management/hostel-service/internal/core/ports"
)

// MockNotificationPublisher records published notification events.
type MockNotificationPublisher struct {
	mu sync.RWMutex

	Published    []ports.NotificationEvent
	PublishError error
	CallCount    int
}

var _ ports.NotificationPublisher = (*MockNotificationPublisher)(nil)

func NewMockNotificationPublisher() *MockNotificationPublisher {
	return &MockNotificationPublisher{Published: make([]ports.NotificationEvent, 0)}
}

func (m *MockNotificationPublisher) PublishNotification(ctx context.Context, evt ports.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.Published = append(m.Published, evt)
	return nil
}

// Events returns a copy of the published events.
func (m *MockNotificationPublisher) Events() []ports.NotificationEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ports.NotificationEvent, len(m.Published))
	copy(out, m.Published)
	return out
}

func (m *MockNotificationPublisher) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.CallCount
}
