package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const pgUniqueViolation = "23505"

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if err := RunMigrations(databaseURL); err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	config.MaxConns = 20
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(databaseURL string) error {
	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	user := User{Username: username, PasswordHash: passwordHash}
	err := s.pool.QueryRow(ctx,
		"INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at",
		username, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return scanPgUser(s.pool.QueryRow(ctx, "SELECT id, username, password_hash, created_at FROM users WHERE username = $1", username))
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return scanPgUser(s.pool.QueryRow(ctx, "SELECT id, username, password_hash, created_at FROM users WHERE id = $1", id))
}

func scanPgUser(row pgx.Row) (*User, error) {
	var user User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) CreateChat(ctx context.Context, userID int64, title, mode string) (*Chat, error) {
	chat := Chat{ID: uuid.NewString(), UserID: userID, Title: title, Mode: mode}
	err := s.pool.QueryRow(ctx,
		"INSERT INTO chats (id, user_id, title, ai_mode) VALUES ($1, $2, $3, $4) RETURNING created_at",
		chat.ID, userID, title, mode).Scan(&chat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert chat: %w", err)
	}
	return &chat, nil
}

func (s *PostgresStore) GetChatByID(ctx context.Context, chatID string, userID int64) (*Chat, error) {
	var chat Chat
	err := s.pool.QueryRow(ctx,
		"SELECT id, user_id, title, ai_mode, created_at FROM chats WHERE id = $1 AND user_id = $2",
		chatID, userID).Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.Mode, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return &chat, nil
}

func (s *PostgresStore) GetChatsByUserID(ctx context.Context, userID int64) ([]Chat, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, user_id, title, ai_mode, created_at FROM chats WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.Mode, &chat.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (s *PostgresStore) CreateMessage(ctx context.Context, msg *Message) error {
	if !msg.Role.Valid() {
		return fmt.Errorf("invalid message role %q", msg.Role)
	}
	err := s.pool.QueryRow(ctx,
		"INSERT INTO messages (chat_id, role, content) VALUES ($1, $2, $3) RETURNING id, created_at",
		msg.ChatID, string(msg.Role), msg.Content).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetMessagesByChatID(ctx context.Context, chatID string) ([]Message, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, chat_id, role, content, created_at FROM messages WHERE chat_id = $1 ORDER BY created_at ASC, id ASC", chatID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.ChatID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = Role(role)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
