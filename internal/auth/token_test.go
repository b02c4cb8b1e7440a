package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestGenerateAndParseRoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager("super-secret", 60)
	tm.now = fixedClock(issued)

	token, expiresAt, err := tm.Generate("2a5c1b8e-8f3d-4e1a-9f27-0c1d2e3f4a5b", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, issued.Add(60*time.Minute), expiresAt)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "2a5c1b8e-8f3d-4e1a-9f27-0c1d2e3f4a5b", claims.Subject)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestParseNonAdminFlag(t *testing.T) {
	tm := NewTokenManager("super-secret", 60)

	token, _, err := tm.Generate("u1", false)
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
}

func TestParseWrongSecret(t *testing.T) {
	issuer := NewTokenManager("right-secret", 60)
	verifier := NewTokenManager("wrong-secret", 60)

	token, _, err := issuer.Generate("u1", false)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpiredToken(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager("super-secret", 30)
	tm.now = fixedClock(issued)

	token, _, err := tm.Generate("u1", false)
	require.NoError(t, err)

	tm.now = fixedClock(issued.Add(31 * time.Minute))
	_, err = tm.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseValidJustBeforeExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager("super-secret", 30)
	tm.now = fixedClock(issued)

	token, _, err := tm.Generate("u1", false)
	require.NoError(t, err)

	tm.now = fixedClock(issued.Add(30*time.Minute - time.Second))
	_, err = tm.Parse(token)
	require.NoError(t, err)
}

func TestParseMalformedToken(t *testing.T) {
	tm := NewTokenManager("super-secret", 60)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := tm.Parse(token)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestParseRejectsUnexpectedSigningMethod(t *testing.T) {
	tm := NewTokenManager("super-secret", 60)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	tm := NewTokenManager("s", 0)
	assert.Equal(t, 60*time.Minute, tm.ttl)
}
