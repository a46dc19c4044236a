package memory

import (
	"context"
	"sort"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

func (s *Store) ListMovementLogs(ctx context.Context) ([]domain.MovementLog, error) {
	var out []domain.MovementLog
	err := s.read(ctx, func(st *state) error {
		out = cloneAll(st.movements, same[domain.MovementLog])
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, err
}

// LogMovement records a check-in or check-out and updates the student's
// presence flag.
func (s *Store) LogMovement(ctx context.Context, studentID string, kind domain.MovementType, reason string) (domain.MovementLog, error) {
	if !kind.Valid() {
		return domain.MovementLog{}, domain.Invalid("unknown movement type %q", kind)
	}
	var out domain.MovementLog
	err := s.mutate(ctx, func(tx *txn) error {
		i := tx.studentIndex(studentID)
		if i < 0 {
			return domain.NotFound("student", studentID)
		}
		student := &tx.users[i]
		student.IsCheckedIn = kind == domain.CheckIn

		log := domain.MovementLog{
			ID:          tx.newID(),
			StudentID:   student.ID,
			StudentName: student.Name,
			Type:        kind,
			Reason:      reason,
			Timestamp:   tx.now,
		}
		tx.movements = append([]domain.MovementLog{log}, tx.movements...)

		shown := reason
		if shown == "" {
			shown = "No reason provided"
		}
		tx.notify(kind.Title(), student.Name+": "+shown, domain.StaffRoles...)
		out = log
		return nil
	})
	return out, err
}

func (s *Store) DeleteMovementLog(ctx context.Context, id string) error {
	return s.mutate(ctx, func(tx *txn) error {
		i := tx.movementIndex(id)
		if i < 0 {
			return domain.NotFound("movement log", id)
		}
		tx.movements = removeAt(tx.movements, i)
		return nil
	})
}
