package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return listRooms(ctx, r.db, "")
}

// listRooms loads rooms with their occupants. A non-empty id restricts the
// result to that room.
func listRooms(ctx context.Context, q querier, id string) ([]domain.Room, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, room_number, capacity, floor, type FROM rooms
		 WHERE ($1 = '' OR id = $1) ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	rooms := make([]domain.Room, 0)
	index := make(map[string]int)
	for rows.Next() {
		rm := domain.Room{Occupants: []string{}}
		if err := rows.Scan(&rm.ID, &rm.RoomNumber, &rm.Capacity, &rm.Floor, &rm.Type); err != nil {
			rows.Close()
			return nil, err
		}
		index[rm.ID] = len(rooms)
		rooms = append(rooms, rm)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	occ, err := q.QueryContext(ctx,
		`SELECT room_id, student_id FROM room_occupants
		 WHERE ($1 = '' OR room_id = $1) ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer occ.Close()
	for occ.Next() {
		var roomID, studentID string
		if err := occ.Scan(&roomID, &studentID); err != nil {
			return nil, err
		}
		if i, ok := index[roomID]; ok {
			rooms[i].Occupants = append(rooms[i].Occupants, studentID)
		}
	}
	return rooms, occ.Err()
}

func (r *SQLRepository) CreateRoom(ctx context.Context, n domain.NewRoom) (domain.Room, error) {
	if err := n.Validate(); err != nil {
		return domain.Room{}, err
	}
	rm := domain.Room{
		ID:         r.newID(),
		RoomNumber: n.RoomNumber,
		Capacity:   n.Capacity,
		Occupants:  []string{},
		Floor:      n.Floor,
		Type:       n.Type,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (id, room_number, capacity, floor, type) VALUES ($1, $2, $3, $4, $5)`,
		rm.ID, rm.RoomNumber, rm.Capacity, rm.Floor, string(rm.Type))
	if isUniqueViolation(err) {
		return domain.Room{}, fmt.Errorf("room %s: %w", n.RoomNumber, domain.ErrConflict)
	}
	if err != nil {
		return domain.Room{}, err
	}
	return rm, nil
}

// AssignStudent locks the target room so concurrent assignments cannot
// overfill it.
func (r *SQLRepository) AssignStudent(ctx context.Context, roomID, studentID string) (domain.Room, error) {
	var out domain.Room
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var number string
		var capacity int
		err := tx.QueryRowContext(ctx,
			`SELECT room_number, capacity FROM rooms WHERE id = $1 FOR UPDATE`, roomID).Scan(&number, &capacity)
		if err != nil {
			return notFound(err, "room", roomID)
		}

		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = $2)`,
			studentID, string(domain.RoleStudent)).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.NotFound("student", studentID)
		}

		var taken int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM room_occupants WHERE room_id = $1 AND student_id <> $2`,
			roomID, studentID).Scan(&taken); err != nil {
			return err
		}
		if taken >= capacity {
			return domain.Invalid("room %s is full", number)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM room_occupants WHERE student_id = $1`, studentID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO room_occupants (room_id, student_id) VALUES ($1, $2)`, roomID, studentID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET room_number = $2 WHERE id = $1`, studentID, number); err != nil {
			return err
		}

		rooms, err := listRooms(ctx, tx, roomID)
		if err != nil {
			return err
		}
		out = rooms[0]
		return nil
	})
	return out, err
}
