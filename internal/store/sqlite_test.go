package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_Users(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	user, err := s.CreateUser(ctx, "ana", "hash")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ana", user.Username)

	_, err = s.CreateUser(ctx, "ana", "other")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	byName, err := s.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", byID.Username)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ChatsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	owner, err := s.CreateUser(ctx, "owner", "h")
	require.NoError(t, err)
	other, err := s.CreateUser(ctx, "other", "h")
	require.NoError(t, err)

	chat, err := s.CreateChat(ctx, owner.ID, "Feelings", "emotionix")
	require.NoError(t, err)
	assert.Len(t, chat.ID, 36)

	got, err := s.GetChatByID(ctx, chat.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feelings", got.Title)
	assert.Equal(t, "emotionix", got.Mode)

	_, err = s.GetChatByID(ctx, chat.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateChat(ctx, owner.ID, "Biology", "alphaStudy")
	require.NoError(t, err)

	chats, err := s.GetChatsByUserID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "Biology", chats[0].Title, "newest chat first")

	none, err := s.GetChatsByUserID(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_MessagesInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	user, err := s.CreateUser(ctx, "u", "h")
	require.NoError(t, err)
	chat, err := s.CreateChat(ctx, user.ID, "t", "emotionix")
	require.NoError(t, err)

	for _, m := range []Message{
		{ChatID: chat.ID, Role: RoleSystem, Content: "AI mode:emotionix"},
		{ChatID: chat.ID, Role: RoleUser, Content: "hi"},
		{ChatID: chat.ID, Role: RoleAssistant, Content: "hello"},
	} {
		m := m
		require.NoError(t, s.CreateMessage(ctx, &m))
		assert.NotZero(t, m.ID)
	}

	messages, err := s.GetMessagesByChatID(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Equal(t, "hi", messages[1].Content)
	assert.Equal(t, RoleAssistant, messages[2].Role)
}

func TestSQLiteStore_RejectsInvalidRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	user, err := s.CreateUser(ctx, "u", "h")
	require.NoError(t, err)
	chat, err := s.CreateChat(ctx, user.ID, "t", "emotionix")
	require.NoError(t, err)

	err = s.CreateMessage(ctx, &Message{ChatID: chat.ID, Role: "model", Content: "x"})
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN("app.db"))
	assert.Equal(t, "/var/app.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN("sqlite:///var/app.db"))
	assert.Equal(t, "file:x.db?cache=shared&_foreign_keys=on&_busy_timeout=5000", sqliteDSN("file:x.db?cache=shared"))
}

func TestIsPostgresURL(t *testing.T) {
	assert.True(t, IsPostgresURL("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgresURL("postgresql://localhost/db"))
	assert.False(t, IsPostgresURL("emotionix.db"))
}
