package ports

import (
	"context"
	"io"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, domain.User, error)
	Logout(ctx context.Context, token string) error
	// Authenticate validates a bearer token and returns its principal.
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

type AvatarService interface {
	Upload(ctx context.Context, userID, contentType string, r io.Reader) (domain.User, error)
	Open(ctx context.Context, key string) (BlobInfo, io.ReadCloser, error)
}

type RegistrationService interface {
	Register(ctx context.Context, user domain.NewUser) (domain.User, error)
	AdmitStudent(ctx context.Context, student domain.NewStudent) (domain.User, error)
}
