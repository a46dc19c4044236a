package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

// Login matches credentials exactly. Passwords are compared in plaintext.
func (s *Store) Login(ctx context.Context, email, password string) (domain.User, error) {
	var out domain.User
	err := s.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email && u.Password == password {
				out = u.Clone()
				return nil
			}
		}
		return domain.ErrAuth
	})
	return out, err
}

// Register creates an account of any role. Students go through the same
// admission path as CreateStudent.
func (s *Store) Register(ctx context.Context, n domain.NewUser) (domain.User, error) {
	if err := n.Validate(); err != nil {
		return domain.User{}, err
	}
	var out domain.User
	err := s.mutate(ctx, func(tx *txn) error {
		if tx.emailTaken(n.Email) {
			return fmt.Errorf("user %s: %w", n.Email, domain.ErrConflict)
		}
		u := domain.User{
			ID:       tx.newID(),
			Name:     n.Name,
			Email:    n.Email,
			Password: n.Password,
			Role:     n.Role,
			Avatar:   n.Avatar,
		}
		if u.Avatar == "" {
			u.Avatar = domain.DefaultAvatar(n.Name)
		}
		if n.Role == domain.RoleStudent {
			u.StudentProfile = &domain.StudentProfile{IsCheckedIn: true}
			s.admit(tx, u)
		} else {
			tx.users = append(tx.users, u)
		}
		out = u.Clone()
		return nil
	})
	return out, err
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	var out domain.User
	err := s.read(ctx, func(st *state) error {
		i := st.userIndex(id)
		if i < 0 {
			return domain.NotFound("user", id)
		}
		out = st.users[i].Clone()
		return nil
	})
	return out, err
}

func (s *Store) UpdateAvatar(ctx context.Context, id, avatar string) (domain.User, error) {
	if strings.TrimSpace(avatar) == "" {
		return domain.User{}, domain.Invalid("avatar is required")
	}
	var out domain.User
	err := s.mutate(ctx, func(tx *txn) error {
		i := tx.userIndex(id)
		if i < 0 {
			return domain.NotFound("user", id)
		}
		tx.users[i].Avatar = avatar
		out = tx.users[i].Clone()
		return nil
	})
	return out, err
}

func (s *Store) ListStudents(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := s.read(ctx, func(st *state) error {
		out = make([]domain.User, 0, len(st.users))
		for _, u := range st.users {
			if u.IsStudent() {
				out = append(out, u.Clone())
			}
		}
		return nil
	})
	return out, err
}

// CreateStudent admits a student with the default password and opens their
// first fee record.
func (s *Store) CreateStudent(ctx context.Context, n domain.NewStudent) (domain.User, error) {
	if err := n.Validate(); err != nil {
		return domain.User{}, err
	}
	var out domain.User
	err := s.mutate(ctx, func(tx *txn) error {
		if tx.emailTaken(n.Email) {
			return fmt.Errorf("user %s: %w", n.Email, domain.ErrConflict)
		}
		u := domain.User{
			ID:             tx.newID(),
			Name:           n.Name,
			Email:          n.Email,
			Password:       domain.DefaultPassword,
			Role:           domain.RoleStudent,
			Avatar:         domain.DefaultAvatar(n.Name),
			StudentProfile: n.Profile(),
		}
		s.admit(tx, u)
		out = u.Clone()
		return nil
	})
	return out, err
}

// admit appends a student together with a pending fee for the current month.
func (s *Store) admit(tx *txn, u domain.User) {
	tx.users = append(tx.users, u)
	tx.fees = append([]domain.FeeRecord{{
		ID:          tx.newID(),
		StudentID:   u.ID,
		StudentName: u.Name,
		Amount:      s.monthlyFee,
		Month:       domain.BillingMonth(tx.now),
		Status:      domain.FeePending,
	}}, tx.fees...)
	tx.notify(domain.TitleNewStudent, u.Name+" joined the hostel.", domain.StaffRoles...)
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return s.mutate(ctx, func(tx *txn) error {
		i := tx.studentIndex(id)
		if i < 0 {
			return domain.NotFound("student", id)
		}
		name := tx.users[i].Name
		tx.removeStudent(id)
		tx.notify(domain.TitleStudentRemoved, name+" was removed from the system.", domain.StaffRoles...)
		return nil
	})
}
