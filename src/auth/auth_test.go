package auth

import (
	"context"
	"testing"
	"time"

	"gajanji-server/src/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewTokens("secret", time.Hour, 24*time.Hour).WithClock(fixedClock(now))

	user := &models.User{ID: "u-1", Email: "a@example.com", Name: "Asha", Provider: models.ProviderLocal}
	signed, err := tokens.IssueSession(user)
	require.NoError(t, err)

	claims, err := tokens.ParseSession(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, []string{}, claims.Roles)
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestSessionTokenExpires(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokens("secret", time.Hour, 24*time.Hour).WithClock(fixedClock(now))
	signed, err := issuer.IssueSession(&models.User{ID: "u-1"})
	require.NoError(t, err)

	later := issuer.WithClock(fixedClock(now.Add(2 * time.Hour)))
	_, err = later.ParseSession(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenRejectsForeignSecret(t *testing.T) {
	signed, err := NewTokens("one", time.Hour, time.Hour).IssueSession(&models.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour, time.Hour).ParseSession(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"_id": "u-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour, time.Hour).ParseSession(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerificationTokenIsNotASession(t *testing.T) {
	tokens := NewTokens("secret", time.Hour, 24*time.Hour)

	verify, err := tokens.IssueVerification(models.PendingRegistration{Name: "A", Email: "a@example.com", PasswordHash: "$2a$hash"})
	require.NoError(t, err)
	_, err = tokens.ParseSession(verify)
	assert.ErrorIs(t, err, ErrInvalidToken)

	session, err := tokens.IssueSession(&models.User{ID: "u-1", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = tokens.ParseVerification(session)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pending, err := tokens.ParseVerification(verify)
	require.NoError(t, err)
	assert.Equal(t, models.PendingRegistration{Name: "A", Email: "a@example.com", PasswordHash: "$2a$hash"}, pending)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3r$ecret", hash)

	assert.NoError(t, CheckPassword(hash, "Sup3r$ecret"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
}

func TestIdentityFromClaims(t *testing.T) {
	id, err := identityFromClaims(map[string]interface{}{
		"email":          "g@example.com",
		"email_verified": true,
		"picture":        "https://img.example/p.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "g@example.com", id.Name)
	assert.Equal(t, "https://img.example/p.png", id.Picture)

	_, err = identityFromClaims(map[string]interface{}{"email": "g@example.com", "email_verified": false})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = identityFromClaims(map[string]interface{}{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u-1", Roles: []string{"admin"}})
	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-1", id.UserID)
	assert.True(t, id.HasRole("admin"))
	assert.False(t, id.HasRole("owner"))
}
