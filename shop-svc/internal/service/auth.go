package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sivik-storefront/shop-svc/internal/auth"
	"sivik-storefront/shop-svc/internal/domain"
)

// ErrInvalidCredentials covers both unknown users and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users    UserRepository
	sessions SessionStore
}

func NewAuthService(users UserRepository, sessions SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *auth.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, domain.NewValidationError("username", "username and password required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return "", nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	principal := auth.PrincipalFromUser(user)
	sessionID, err := s.sessions.Create(ctx, principal)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	return sessionID, principal, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Session returns nil without error when the session is unknown or expired.
func (s *AuthService) Session(ctx context.Context, sessionID string) (*auth.Principal, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.sessions.Get(ctx, sessionID)
}
