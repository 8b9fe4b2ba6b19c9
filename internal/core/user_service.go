package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"emotionix.ai/emotionix/internal/auth"
	"emotionix.ai/emotionix/internal/store"
)

var (
	ErrMissingCredentials = errors.New("username and password required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
)

type UserService struct {
	dbStore store.Store
	logger  *zap.Logger
}

func NewUserService(db store.Store, logger *zap.Logger) *UserService {
	return &UserService{dbStore: db, logger: logger}
}

func (s *UserService) Signup(ctx context.Context, username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.dbStore.CreateUser(ctx, username, hashedPassword)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("User signed up", zap.Int64("user_id", user.ID))
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	user, err := s.dbStore.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns the user behind a session, or store.ErrNotFound.
func (s *UserService) GetUser(ctx context.Context, id int64) (*store.User, error) {
	return s.dbStore.GetUserByID(ctx, id)
}
