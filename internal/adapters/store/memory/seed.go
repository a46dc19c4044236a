package memory

import "github.com/hostel-management/hostel-service/internal/core/domain"

// DemoUsers are the staff accounts available on a fresh install. They all use
// domain.DefaultPassword.
var DemoUsers = []domain.User{
	{ID: "u1", Name: "Admin User", Email: "admin@hostel.com", Role: domain.RoleAdmin,
		Avatar: "https://ui-avatars.com/api/?name=Admin&background=0D8ABC&color=fff"},
	{ID: "u2", Name: "Warden Smith", Email: "warden@hostel.com", Role: domain.RoleWarden,
		Avatar: "https://ui-avatars.com/api/?name=Warden&background=random"},
	{ID: "u3", Name: "Chef Gordon", Email: "kitchen@hostel.com", Role: domain.RoleKitchen,
		Avatar: "https://ui-avatars.com/api/?name=Chef&background=random"},
}

// SeedDemoUsers adds any demo account whose email is not registered yet and
// reports how many were added. No notifications are raised.
func (s *Store) SeedDemoUsers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, u := range DemoUsers {
		if s.state.emailTaken(u.Email) || s.state.userIndex(u.ID) >= 0 {
			continue
		}
		u.Password = domain.DefaultPassword
		s.state.users = append(s.state.users, u)
		added++
	}
	return added
}
