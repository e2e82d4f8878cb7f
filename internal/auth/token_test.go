package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	credentialID := uuid.New()

	t.Run("mint and parse round trip", func(t *testing.T) {
		token, err := issuer.Mint(credentialID)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		parsed, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, credentialID, parsed)
	})

	t.Run("each mint is unique", func(t *testing.T) {
		t1, err := issuer.Mint(credentialID)
		require.NoError(t, err)
		t2, err := issuer.Mint(credentialID)
		require.NoError(t, err)
		assert.NotEqual(t, t1, t2)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		token, err := NewTokenIssuer("other-secret").Mint(credentialID)
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.Error(t, err)
	})

	t.Run("rejects foreign issuer", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Issuer: "someone-else", Subject: credentialID.String()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("rejects non uuid subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "42"}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})
}
