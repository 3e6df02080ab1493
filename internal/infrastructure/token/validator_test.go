package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func TestValidate(t *testing.T) {
	secret := []byte("test-secret")
	v, err := NewValidator(secret)
	require.NoError(t, err)

	t.Run("string subject", func(t *testing.T) {
		tok := signToken(t, secret, jwt.MapClaims{"sub": "42"})
		id, err := v.Validate(tok)
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("numeric subject", func(t *testing.T) {
		tok := signToken(t, secret, jwt.MapClaims{"sub": 7})
		id, err := v.Validate(tok)
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := v.Validate("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok := signToken(t, []byte("other-secret"), jwt.MapClaims{"sub": "42"})
		_, err := v.Validate(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		tok := signToken(t, secret, jwt.MapClaims{
			"sub": "42",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		_, err := v.Validate(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		tok := signToken(t, secret, jwt.MapClaims{"sub": "alice"})
		_, err := v.Validate(tok)
		assert.ErrorIs(t, err, ErrBadSubject)
	})
}
