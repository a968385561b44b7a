package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"travel_planner/internal/domain"
)

const bcryptCost = 10

type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionStore
	sessionTTL time.Duration
}

func NewAuthService(u domain.UserRepository, s domain.SessionStore, ttl time.Duration) *AuthService {
	return &AuthService{users: u, sessions: s, sessionTTL: ttl}
}

// Register creates the account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	if l := len(username); l < 3 || l > 32 {
		return domain.User{}, "", fmt.Errorf("%w: username must be 3-32 characters", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.CreateUser(ctx, domain.User{Username: username, PasswordHash: string(hash)})
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := s.sessions.Create(ctx, u.ID, s.sessionTTL)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("create session: %w", err)
	}
	return u, token, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	token, err := s.sessions.Create(ctx, u.ID, s.sessionTTL)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("create session: %w", err)
	}
	return u, token, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to a user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, domain.ErrUnauthorized
	}
	id, ok, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("lookup session: %w", err)
	}
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return id, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	id, err := s.Authenticate(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrUnauthorized
	}
	return u, err
}
