package ports

import (
	"context"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

// NotificationEvent is the message fanned out to other services whenever a
// notification is emitted.
type NotificationEvent struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Message    string        `json:"message"`
	TargetRole []domain.Role `json:"target_role"`
	Timestamp  int64         `json:"timestamp"`
}

func NewNotificationEvent(n domain.Notification) NotificationEvent {
	return NotificationEvent{
		ID:         n.ID,
		Title:      n.Title,
		Message:    n.Message,
		TargetRole: append([]domain.Role{}, n.TargetRole...),
		Timestamp:  n.Timestamp.Unix(),
	}
}

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, evt NotificationEvent) error
}
