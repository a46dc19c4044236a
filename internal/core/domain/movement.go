package domain

import "time"

type MovementType string

const (
	CheckIn  MovementType = "CHECK_IN"
	CheckOut MovementType = "CHECK_OUT"
)

func (t MovementType) Valid() bool {
	switch t {
	case CheckIn, CheckOut:
		return true
	}
	return false
}

// Title is the notification title announcing a movement of this type.
func (t MovementType) Title() string {
	if t == CheckIn {
		return TitleCheckIn
	}
	return TitleCheckOut
}

type MovementLog struct {
	ID          string       `json:"id"`
	StudentID   string       `json:"studentId"`
	StudentName string       `json:"studentName"`
	Type        MovementType `json:"type"`
	Reason      string       `json:"reason,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

type NewMovement struct {
	StudentID string       `json:"studentId"`
	Type      MovementType `json:"type"`
	Reason    string       `json:"reason,omitempty"`
}
