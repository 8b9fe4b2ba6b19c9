package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("s3cret", "not-a-hash"))
}

func TestSessions_RoundTrip(t *testing.T) {
	s := NewSessions("key", time.Hour)

	token, err := s.GenerateJWT(42)
	require.NoError(t, err)

	userID, err := s.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestSessions_RejectsForeignKey(t *testing.T) {
	token, err := NewSessions("key-a", time.Hour).GenerateJWT(1)
	require.NoError(t, err)

	_, err = NewSessions("key-b", time.Hour).ValidateJWT(token)
	assert.Error(t, err)
}

func TestSessions_Expired(t *testing.T) {
	s := NewSessions("key", time.Minute)
	issued := time.Now()
	s.now = func() time.Time { return issued }

	token, err := s.GenerateJWT(7)
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = s.ValidateJWT(token)
	assert.Error(t, err)
}

func TestSessions_Garbage(t *testing.T) {
	_, err := NewSessions("key", time.Hour).ValidateJWT("not.a.token")
	assert.Error(t, err)
}
