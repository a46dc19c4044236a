package domain

import "strings"

type RoomType string

const (
	RoomSingle RoomType = "1-bed"
	RoomDouble RoomType = "2-bed"
	RoomQuad   RoomType = "4-bed"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomSingle, RoomDouble, RoomQuad:
		return true
	}
	return false
}

type Room struct {
	ID         string   `json:"id"`
	RoomNumber string   `json:"roomNumber"`
	Capacity   int      `json:"capacity"`
	Occupants  []string `json:"occupants"`
	Floor      int      `json:"floor"`
	Type       RoomType `json:"type"`
}

func (r Room) Clone() Room {
	cp := r
	cp.Occupants = append([]string{}, r.Occupants...)
	return cp
}

func (r Room) HasOccupant(studentID string) bool {
	for _, id := range r.Occupants {
		if id == studentID {
			return true
		}
	}
	return false
}

// HasSpaceFor reports whether studentID can be placed in the room. A
// student already listed does not count against the capacity.
func (r Room) HasSpaceFor(studentID string) bool {
	taken := len(r.Occupants)
	if r.HasOccupant(studentID) {
		taken--
	}
	return taken < r.Capacity
}

// WithoutOccupant returns the occupant list with studentID removed.
func (r Room) WithoutOccupant(studentID string) []string {
	out := make([]string, 0, len(r.Occupants))
	for _, id := range r.Occupants {
		if id != studentID {
			out = append(out, id)
		}
	}
	return out
}

type NewRoom struct {
	RoomNumber string   `json:"roomNumber"`
	Capacity   int      `json:"capacity"`
	Floor      int      `json:"floor"`
	Type       RoomType `json:"type"`
}

func (n NewRoom) Validate() error {
	if strings.TrimSpace(n.RoomNumber) == "" {
		return Invalid("roomNumber is required")
	}
	if n.Capacity <= 0 {
		return Invalid("capacity must be positive")
	}
	if n.Type != "" && !n.Type.Valid() {
		return Invalid("unknown room type %q", n.Type)
	}
	return nil
}

// AssignRequest moves a student into a room.
type AssignRequest struct {
	RoomID    string `json:"roomId"`
	StudentID string `json:"studentId"`
}
