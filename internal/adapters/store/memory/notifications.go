package memory

import (
	"context"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

// ListNotifications returns the notifications addressed to role, newest first.
func (s *Store) ListNotifications(ctx context.Context, role domain.Role) ([]domain.Notification, error) {
	if !role.Valid() {
		return nil, domain.Invalid("unknown role %q", role)
	}
	var out []domain.Notification
	err := s.read(ctx, func(st *state) error {
		out = make([]domain.Notification, 0)
		for _, n := range st.notifications {
			if n.VisibleTo(role) {
				out = append(out, n.Clone())
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error) {
	var out domain.Notification
	err := s.mutate(ctx, func(tx *txn) error {
		i := tx.notificationIndex(id)
		if i < 0 {
			return domain.NotFound("notification", id)
		}
		tx.notifications[i].IsRead = true
		out = tx.notifications[i].Clone()
		return nil
	})
	return out, err
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	return s.mutate(ctx, func(tx *txn) error {
		i := tx.notificationIndex(id)
		if i < 0 {
			return domain.NotFound("notification", id)
		}
		tx.notifications = removeAt(tx.notifications, i)
		return nil
	})
}
