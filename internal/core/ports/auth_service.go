package ports

import (
	"context"
	"time"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

// IssuedToken is a freshly minted bearer token.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer mints tokens for authenticated users and revokes them.
type TokenIssuer interface {
	Issue(ctx context.Context, user *domain.User) (*IssuedToken, error)
	Revoke(ctx context.Context, tokenID string) error
}

// TokenVerifier resolves a bearer token into the acting user. Every rejection
// wraps domain.ErrUnauthenticated.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Actor, error)
}

// SessionStore records token issuance so tokens can be revoked before expiry.
type SessionStore interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenID string) error
}

// AuthService handles login and logout.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*IssuedToken, *domain.User, error)
	Logout(ctx context.Context, actor *domain.Actor) error
}
