package memory

import (
	"context"
	"fmt"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

func (s *Store) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	err := s.read(ctx, func(st *state) error {
		out = cloneAll(st.rooms, domain.Room.Clone)
		return nil
	})
	return out, err
}

func (s *Store) CreateRoom(ctx context.Context, n domain.NewRoom) (domain.Room, error) {
	if err := n.Validate(); err != nil {
		return domain.Room{}, err
	}
	var out domain.Room
	err := s.mutate(ctx, func(tx *txn) error {
		for _, r := range tx.rooms {
			if r.RoomNumber == n.RoomNumber {
				return fmt.Errorf("room %s: %w", n.RoomNumber, domain.ErrConflict)
			}
		}
		r := domain.Room{
			ID:         tx.newID(),
			RoomNumber: n.RoomNumber,
			Capacity:   n.Capacity,
			Occupants:  []string{},
			Floor:      n.Floor,
			Type:       n.Type,
		}
		tx.rooms = append(tx.rooms, r)
		out = r.Clone()
		return nil
	})
	return out, err
}

// AssignStudent moves a student into roomID, taking them out of whichever
// room listed them before. A full room rejects the move.
func (s *Store) AssignStudent(ctx context.Context, roomID, studentID string) (domain.Room, error) {
	var out domain.Room
	err := s.mutate(ctx, func(tx *txn) error {
		ri := tx.roomIndex(roomID)
		if ri < 0 {
			return domain.NotFound("room", roomID)
		}
		ui := tx.studentIndex(studentID)
		if ui < 0 {
			return domain.NotFound("student", studentID)
		}
		if !tx.rooms[ri].HasSpaceFor(studentID) {
			return domain.Invalid("room %s is full", tx.rooms[ri].RoomNumber)
		}

		for i := range tx.rooms {
			tx.rooms[i].Occupants = tx.rooms[i].WithoutOccupant(studentID)
		}
		tx.rooms[ri].Occupants = append(tx.rooms[ri].Occupants, studentID)
		tx.users[ui].RoomNumber = tx.rooms[ri].RoomNumber
		out = tx.rooms[ri].Clone()
		return nil
	})
	return out, err
}
