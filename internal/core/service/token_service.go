package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues HS256 JWTs and verifies them against the session store.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	sessions ports.SessionStore
	now      func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, sessions ports.SessionStore) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, sessions: sessions, now: time.Now}
}

// Issue mints a token for user and records the session.
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (*ports.IssuedToken, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	jti := uuid.NewString()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Role: user.Role.Value(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if err := s.sessions.Save(ctx, jti, user.ID, s.ttl); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return &ports.IssuedToken{Token: signed, ExpiresAt: exp}, nil
}

// Verify resolves a bearer token into an Actor. Every token problem yields
// the bare domain.ErrUnauthenticated so callers cannot tell them apart.
func (s *TokenService) Verify(ctx context.Context, token string) (*domain.Actor, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrUnauthenticated
	}

	live, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	if !live {
		return nil, domain.ErrUnauthenticated
	}

	return &domain.Actor{
		UserID:    claims.Subject,
		Role:      role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke ends the session behind a token id.
func (s *TokenService) Revoke(ctx context.Context, tokenID string) error {
	if err := s.sessions.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
