package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

// sqliteDSN accepts a bare path, ":memory:" or a sqlite:// URL and enables
// foreign keys.
func sqliteDSN(dataSourceName string) string {
	dsn := strings.TrimPrefix(dataSourceName, "sqlite://")
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS chats (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        title TEXT NOT NULL,
        ai_mode TEXT NOT NULL DEFAULT 'emotionix',
        created_at DATETIME NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );
    CREATE INDEX IF NOT EXISTS idx_chats_user_id ON chats (user_id, created_at);

    CREATE TABLE IF NOT EXISTS messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        chat_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('system', 'user', 'assistant')),
        content TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        FOREIGN KEY (chat_id) REFERENCES chats (id)
    );
    CREATE INDEX IF NOT EXISTS idx_messages_chat_id ON messages (chat_id, created_at, id);
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, "INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)", username, passwordHash, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}
	return &User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, "SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username))
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, "SELECT id, username, password_hash, created_at FROM users WHERE id = ?", id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// Chat methods
func (s *SQLiteStore) CreateChat(ctx context.Context, userID int64, title, mode string) (*Chat, error) {
	chatID := uuid.NewString()
	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO chats (id, user_id, title, ai_mode, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare chat insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	_, err = stmt.ExecContext(ctx, chatID, userID, title, mode, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat insert: %w", err)
	}
	return &Chat{ID: chatID, UserID: userID, Title: title, Mode: mode, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetChatByID(ctx context.Context, chatID string, userID int64) (*Chat, error) {
	var chat Chat
	err := s.db.QueryRowContext(ctx, "SELECT id, user_id, title, ai_mode, created_at FROM chats WHERE id = ? AND user_id = ?", chatID, userID).
		Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.Mode, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

func (s *SQLiteStore) GetChatsByUserID(ctx context.Context, userID int64) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, user_id, title, ai_mode, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC, rowid DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.Mode, &chat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// Message methods
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *Message) error {
	if !msg.Role.Valid() {
		return fmt.Errorf("invalid message role %q", msg.Role)
	}
	msg.CreatedAt = time.Now().UTC()

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO messages (chat_id, role, content, created_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, msg.ChatID, string(msg.Role), msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	msg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read message id: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMessagesByChatID(ctx context.Context, chatID string) ([]Message, error) {
	query := "SELECT id, chat_id, role, content, created_at FROM messages WHERE chat_id = ? ORDER BY created_at ASC, id ASC"
	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.ChatID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msg.Role = Role(role)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
