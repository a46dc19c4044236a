package memory

import (
	"strings"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

// state holds every container. Lists that the API returns newest first are
// kept in that order.
type state struct {
	users         []domain.User
	rooms         []domain.Room
	complaints    []domain.Complaint
	orders        []domain.MealOrder
	notifications []domain.Notification
	movements     []domain.MovementLog
	fees          []domain.FeeRecord
	menu          domain.WeeklyMenu
}

func newState() state {
	return state{menu: domain.DefaultWeeklyMenu()}
}

func (st *state) userIndex(id string) int {
	for i := range st.users {
		if st.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) studentIndex(id string) int {
	i := st.userIndex(id)
	if i < 0 || !st.users[i].IsStudent() || st.users[i].StudentProfile == nil {
		return -1
	}
	return i
}

func (st *state) emailTaken(email string) bool {
	for _, u := range st.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (st *state) roomIndex(id string) int {
	for i := range st.rooms {
		if st.rooms[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) complaintIndex(id string) int {
	for i := range st.complaints {
		if st.complaints[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) orderIndex(id string) int {
	for i := range st.orders {
		if st.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) notificationIndex(id string) int {
	for i := range st.notifications {
		if st.notifications[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) movementIndex(id string) int {
	for i := range st.movements {
		if st.movements[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) feeIndex(id string) int {
	for i := range st.fees {
		if st.fees[i].ID == id {
			return i
		}
	}
	return -1
}

// removeStudent drops the student and every record that belongs to them.
func (st *state) removeStudent(id string) {
	st.users = filter(st.users, func(u domain.User) bool { return u.ID != id })
	for i := range st.rooms {
		st.rooms[i].Occupants = st.rooms[i].WithoutOccupant(id)
	}
	st.complaints = filter(st.complaints, func(c domain.Complaint) bool { return c.StudentID != id })
	st.orders = filter(st.orders, func(o domain.MealOrder) bool { return o.StudentID != id })
	st.fees = filter(st.fees, func(f domain.FeeRecord) bool { return f.StudentID != id })
	st.movements = filter(st.movements, func(m domain.MovementLog) bool { return m.StudentID != id })
}

// filter keeps the elements for which keep returns true, in a new slice.
func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func removeAt[T any](in []T, i int) []T {
	out := make([]T, 0, len(in)-1)
	out = append(out, in[:i]...)
	return append(out, in[i+1:]...)
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, clone(v))
	}
	return out
}

func same[T any](v T) T { return v }
