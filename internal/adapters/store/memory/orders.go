package memory

import (
	"context"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

func (s *Store) ListOrders(ctx context.Context, studentID string) ([]domain.MealOrder, error) {
	var out []domain.MealOrder
	err := s.read(ctx, func(st *state) error {
		out = make([]domain.MealOrder, 0, len(st.orders))
		for _, o := range st.orders {
			if studentID == "" || o.StudentID == studentID {
				out = append(out, o.Clone())
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) CreateOrder(ctx context.Context, n domain.NewOrder, author domain.User) (domain.MealOrder, error) {
	if err := n.Validate(); err != nil {
		return domain.MealOrder{}, err
	}
	var out domain.MealOrder
	err := s.mutate(ctx, func(tx *txn) error {
		if tx.userIndex(author.ID) < 0 {
			return domain.NotFound("user", author.ID)
		}
		o := domain.MealOrder{
			ID:                  tx.newID(),
			StudentID:           author.ID,
			StudentName:         author.Name,
			Items:               append([]string{}, n.Items...),
			Date:                tx.now.Format("2006-01-02"),
			PickupTime:          n.PickupTime,
			Status:              domain.OrderPending,
			SpecialInstructions: n.SpecialInstructions,
		}
		tx.orders = append([]domain.MealOrder{o}, tx.orders...)
		out = o.Clone()
		return nil
	})
	return out, err
}

// UpdateOrderStatus moves an order forward through the kitchen workflow.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.MealOrder, error) {
	if !status.Valid() {
		return domain.MealOrder{}, domain.Invalid("unknown order status %q", status)
	}
	var out domain.MealOrder
	err := s.mutate(ctx, func(tx *txn) error {
		i := tx.orderIndex(id)
		if i < 0 {
			return domain.NotFound("order", id)
		}
		current := tx.orders[i].Status
		if !current.CanAdvanceTo(status) {
			return domain.Invalid("order %s cannot move from %s to %s", id, current, status)
		}
		tx.orders[i].Status = status
		out = tx.orders[i].Clone()
		return nil
	})
	return out, err
}
