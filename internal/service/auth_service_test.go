package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueToken(t *testing.T) {
	svc := NewAuthService("test-secret", 2*time.Hour).(*authService)
	issuedAt := time.Now().Truncate(time.Second)
	svc.now = func() time.Time { return issuedAt }

	signed, expiresAt, err := svc.IssueToken("  alice ")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(2*time.Hour), expiresAt)

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(svc.GetJWTSecret()), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "HS256", token.Method.Alg())
	assert.Equal(t, "alice", claims.OwnerID)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "gymmora", claims.Issuer)
}

func TestIssueToken_RejectsEmptyOwner(t *testing.T) {
	svc := NewAuthService("test-secret", 0)
	_, _, err := svc.IssueToken("   ")
	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestIssueToken_WrongSecretFailsVerification(t *testing.T) {
	signed, _, err := NewAuthService("one", time.Hour).IssueToken("alice")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("two"), nil
	})
	assert.Error(t, err)
}

func TestNewAuthService_PanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { NewAuthService("", time.Hour) })
}
