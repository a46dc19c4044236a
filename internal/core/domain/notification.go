package domain

import "time"

type Notification struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
	TargetRole []Role    `json:"targetRole"`
}

// VisibleTo reports whether role is among the notification's targets.
func (n Notification) VisibleTo(role Role) bool {
	for _, r := range n.TargetRole {
		if r == role {
			return true
		}
	}
	return false
}

func (n Notification) Clone() Notification {
	cp := n
	cp.TargetRole = append([]Role{}, n.TargetRole...)
	return cp
}

// Notification titles emitted by store mutations.
const (
	TitleNewStudent     = "New Student"
	TitleStudentRemoved = "Student Removed"
	TitleNewComplaint   = "New Complaint"
	TitleCheckIn        = "Student Check In"
	TitleCheckOut       = "Student Check Out"
	TitleFeePaid        = "Fee Paid"
)
