package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

// AuthService issues RS256 tokens for store logins and tracks them in a
// session store so logout takes effect before expiry.
type AuthService struct {
	users      ports.UserStore
	sessions   ports.SessionStore
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAuthService builds the service. sessions may be nil, in which case
// tokens are valid until they expire.
func NewAuthService(
	users ports.UserStore,
	sessions ports.SessionStore,
	privateKey *rsa.PrivateKey,
	ttl time.Duration,
	logger *zap.Logger,
) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		ttl:        ttl,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.users.Login(ctx, email, password)
	if err != nil {
		return "", domain.User{}, err
	}

	now := s.now()
	jti := uuid.NewString()
	claims := tokenClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("sign token: %w", err)
	}

	if s.sessions != nil {
		if err := s.sessions.Save(ctx, jti, user.ID, s.ttl); err != nil {
			return "", domain.User{}, fmt.Errorf("save session: %w", err)
		}
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return token, user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.Subject))
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.Principal{}, err
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" {
		return domain.Principal{}, fmt.Errorf("%w: malformed claims", domain.ErrAuth)
	}

	if s.sessions != nil {
		active, err := s.sessions.Active(ctx, claims.ID)
		if err != nil {
			return domain.Principal{}, fmt.Errorf("check session: %w", err)
		}
		if !active {
			return domain.Principal{}, fmt.Errorf("%w: session revoked", domain.ErrAuth)
		}
	}
	return domain.Principal{UserID: claims.Subject, Role: role, Token: token}, nil
}

func (s *AuthService) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.publicKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", domain.ErrAuth)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrAuth)
	}
	return claims, nil
}
