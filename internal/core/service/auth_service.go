package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

// AuthService implements login and logout.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.IssuedToken, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			checkPassword("", password)
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !checkPassword(user.PasswordHash, password) {
		s.log.Info().Str("user_id", user.ID).Msg("login rejected")
		return nil, nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.Value()).Msg("login succeeded")
	return token, user, nil
}

// Logout revokes the token the actor authenticated with.
func (s *AuthService) Logout(ctx context.Context, actor *domain.Actor) error {
	if actor == nil || actor.TokenID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.tokens.Revoke(ctx, actor.TokenID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", actor.UserID).Msg("logout")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
