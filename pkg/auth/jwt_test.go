package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	token, err := j.GenerateToken(7, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestJWT_TokensAreUnique(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	a, err := j.GenerateToken(1, "a@example.com")
	require.NoError(t, err)
	b, err := j.GenerateToken(1, "a@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestJWT_Rejects(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	foreign, err := NewJWT("other", time.Hour).GenerateToken(1, "a@example.com")
	require.NoError(t, err)

	expiredIssuer := NewJWT("secret", time.Minute)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredIssuer.GenerateToken(1, "a@example.com")
	require.NoError(t, err)

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not-a-jwt",
		"foreign":   foreign,
		"expired":   expired,
		"truncated": foreign[:len(foreign)-4],
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := j.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)

	assert.NotEqual(t, "123456", hash)
	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "654321"))
	assert.False(t, CheckPassword("not-a-hash", "123456"))
}

func TestPasswordHashing_LongPasswords(t *testing.T) {
	long := strings.Repeat("a", 80)

	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, long))
	assert.False(t, CheckPassword(hash, long[:72]), "bytes past 72 still count")
}
