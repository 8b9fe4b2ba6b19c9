package store

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Store persists users, chats and messages. Messages are only ever appended.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)

	CreateChat(ctx context.Context, userID int64, title, mode string) (*Chat, error)
	GetChatByID(ctx context.Context, chatID string, userID int64) (*Chat, error)
	GetChatsByUserID(ctx context.Context, userID int64) ([]Chat, error)

	CreateMessage(ctx context.Context, msg *Message) error
	// GetMessagesByChatID returns the chat's messages by creation time, oldest first.
	GetMessagesByChatID(ctx context.Context, chatID string) ([]Message, error)

	Close() error
}

// IsPostgresURL reports whether databaseURL points at PostgreSQL rather than
// a SQLite file.
func IsPostgresURL(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://")
}

// Open picks the backend from the shape of databaseURL.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	if IsPostgresURL(databaseURL) {
		return NewPostgresStore(ctx, databaseURL)
	}
	return NewSQLiteStore(databaseURL)
}
