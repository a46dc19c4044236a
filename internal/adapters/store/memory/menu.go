package memory

import (
	"context"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

func (s *Store) WeeklyMenu(ctx context.Context) (domain.WeeklyMenu, error) {
	var out domain.WeeklyMenu
	err := s.read(ctx, func(st *state) error {
		out = st.menu
		return nil
	})
	return out, err
}

// UpdateWeeklyMenu replaces the whole menu.
func (s *Store) UpdateWeeklyMenu(ctx context.Context, menu domain.WeeklyMenu) (domain.WeeklyMenu, error) {
	err := s.mutate(ctx, func(tx *txn) error {
		tx.menu = menu
		return nil
	})
	if err != nil {
		return domain.WeeklyMenu{}, err
	}
	return menu, nil
}
