package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
	"github.com/hostel-management/hostel-service/internal/logger"
)

type AuthMiddleware struct {
	auth   ports.AuthService
	logger *zap.Logger
}

func NewAuthMiddleware(auth ports.AuthService, log *zap.Logger) *AuthMiddleware {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthMiddleware{auth: auth, logger: log}
}

// Authenticated admits any caller with a valid token.
func (m *AuthMiddleware) Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireRole(nil, next)
}

// RequireRole validates the bearer token and, when roles is non-empty,
// checks the caller holds one of them. The principal is stored in the
// request context.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context(), m.logger)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Debug("missing authorization header")
			writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Debug("invalid authorization header format")
			writeJSONError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		principal, err := m.auth.Authenticate(r.Context(), parts[1])
		if err != nil {
			if errors.Is(err, domain.ErrAuth) {
				log.Debug("token rejected", zap.Error(err))
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			log.Error("authentication unavailable", zap.Error(err))
			writeJSONError(w, http.StatusServiceUnavailable, "authentication unavailable")
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, principal.Role) {
			log.Info("role mismatch",
				zap.String("user_id", principal.UserID),
				zap.String("role", string(principal.Role)),
				zap.Any("required", roles),
			)
			writeJSONError(w, http.StatusForbidden, "forbidden")
			return
		}

		ctx := domain.WithPrincipal(r.Context(), principal)
		ctx = logger.WithContext(ctx, log.With(zap.String("user_id", principal.UserID)))
		next(w, r.WithContext(ctx))
	}
}
