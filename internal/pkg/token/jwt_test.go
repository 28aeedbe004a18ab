package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("segredo", time.Hour)

	raw, err := svc.GenerateToken("u1", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Vitrine-API", claims.Issuer)
}

func TestValidate_RejectsExpiredAndForeignTokens(t *testing.T) {
	svc := NewService("segredo", time.Hour)
	raw, err := svc.GenerateToken("u1", "user")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(raw)
	assert.Error(t, err)

	other := NewService("outro-segredo", time.Hour)
	_, err = other.ValidateToken(raw)
	assert.Error(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "outra-api"},
	}).SignedString([]byte("segredo"))
	require.NoError(t, err)
	_, err = NewService("segredo", time.Hour).ValidateToken(foreign)
	assert.Error(t, err)

	_, err = svc.ValidateToken("lixo")
	assert.Error(t, err)
}
