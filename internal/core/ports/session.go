package ports

import (
	"context"
	"time"
)

// SessionStore tracks issued tokens by their jti so they can be revoked.
type SessionStore interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	Active(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
	Ping(ctx context.Context) error
}
