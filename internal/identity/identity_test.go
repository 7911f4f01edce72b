package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpraj/billbook/internal/identity"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return signed
}

func TestVerifier_Verify(t *testing.T) {
	v := identity.NewVerifier(testSecret)

	t.Run("ValidToken", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub":   "user-123",
			"email": "alice@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		id, err := v.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", id.Subject)
		assert.Equal(t, "alice@example.com", id.Email)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := v.Verify(token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub": "user-123",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		_, err := v.Verify(token)
		assert.Error(t, err)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := identity.NewVerifier("other-secret")

		token := signToken(t, jwt.MapClaims{
			"sub": "user-123",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := other.Verify(token)
		assert.Error(t, err)
	})
}

func TestFromContext(t *testing.T) {
	_, err := identity.FromContext(context.Background())
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)

	ctx := identity.NewContext(context.Background(), identity.Identity{Subject: "user-123"})

	id, err := identity.FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.Subject)
}
