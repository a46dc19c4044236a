package memory

import "github.com/hostel-management/hostel-service/internal/core/domain"

// UserRecord is a user as persisted, password included.
type UserRecord struct {
	domain.User
	Password string `json:"password"`
}

// Snapshot is a point-in-time copy of the whole store.
type Snapshot struct {
	Users         []UserRecord          `json:"users"`
	Rooms         []domain.Room         `json:"rooms"`
	Complaints    []domain.Complaint    `json:"complaints"`
	Orders        []domain.MealOrder    `json:"orders"`
	Notifications []domain.Notification `json:"notifications"`
	Movements     []domain.MovementLog  `json:"movements"`
	Fees          []domain.FeeRecord    `json:"fees"`
	Menu          *domain.WeeklyMenu    `json:"menu,omitempty"`
}

func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]UserRecord, 0, len(s.state.users))
	for _, u := range s.state.users {
		users = append(users, UserRecord{User: u.Clone(), Password: u.Password})
	}
	menu := s.state.menu
	return Snapshot{
		Users:         users,
		Rooms:         cloneAll(s.state.rooms, domain.Room.Clone),
		Complaints:    cloneAll(s.state.complaints, same[domain.Complaint]),
		Orders:        cloneAll(s.state.orders, domain.MealOrder.Clone),
		Notifications: cloneAll(s.state.notifications, domain.Notification.Clone),
		Movements:     cloneAll(s.state.movements, same[domain.MovementLog]),
		Fees:          cloneAll(s.state.fees, domain.FeeRecord.Clone),
		Menu:          &menu,
	}
}

// ImportState replaces the store state with snap.
func (s *Store) ImportState(snap Snapshot) {
	st := newState()
	for _, r := range snap.Users {
		u := r.User.Clone()
		u.Password = r.Password
		if u.IsStudent() && u.StudentProfile == nil {
			u.StudentProfile = &domain.StudentProfile{}
		}
		st.users = append(st.users, u)
	}
	st.rooms = cloneAll(snap.Rooms, domain.Room.Clone)
	st.complaints = cloneAll(snap.Complaints, same[domain.Complaint])
	st.orders = cloneAll(snap.Orders, domain.MealOrder.Clone)
	st.notifications = cloneAll(snap.Notifications, domain.Notification.Clone)
	st.movements = cloneAll(snap.Movements, same[domain.MovementLog])
	st.fees = cloneAll(snap.Fees, domain.FeeRecord.Clone)
	if snap.Menu != nil {
		st.menu = *snap.Menu
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
