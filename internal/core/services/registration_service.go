package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

type RegistrationService struct {
	users  ports.UserStore
	logger *zap.Logger
}

func NewRegistrationService(users ports.UserStore, logger *zap.Logger) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{users: users, logger: logger}
}

// Register creates an account. Students registered without a password get
// the default one.
func (s *RegistrationService) Register(ctx context.Context, n domain.NewUser) (domain.User, error) {
	switch n.Role {
	case domain.RoleStudent:
		if n.Password == "" {
			n.Password = domain.DefaultPassword
		}
	case domain.RoleAdmin, domain.RoleWarden, domain.RoleKitchen:
	default:
		return domain.User{}, domain.Invalid("unknown role %q", n.Role)
	}

	user, err := s.users.Register(ctx, n)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// AdmitStudent creates a student from the admission form.
func (s *RegistrationService) AdmitStudent(ctx context.Context, n domain.NewStudent) (domain.User, error) {
	user, err := s.users.CreateStudent(ctx, n)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("student admitted", zap.String("user_id", user.ID))
	return user, nil
}
