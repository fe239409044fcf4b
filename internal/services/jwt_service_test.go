package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_very_secret_jwt_key_here"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTService_RoundTrip(t *testing.T) {
	s := NewJWTService(testSecret, "demo app", 24*time.Hour)

	token, err := s.GenerateToken(42)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	subject, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestJWTService_Claims(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewJWTService(testSecret, "demo app", 24*time.Hour)
	s.now = fixedClock(issuedAt)

	token, err := s.GenerateToken(7)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "HS512", parsed.Method.Alg())
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "demo app", claims.Issuer)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issuedAt.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_UniqueIDs(t *testing.T) {
	s := NewJWTService(testSecret, "demo app", time.Hour)
	s.now = fixedClock(time.Now())

	a, err := s.GenerateToken(1)
	require.NoError(t, err)
	b, err := s.GenerateToken(1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTService_Expired(t *testing.T) {
	issuedAt := time.Now()
	s := NewJWTService(testSecret, "demo app", time.Hour)
	s.now = fixedClock(issuedAt)

	token, err := s.GenerateToken(1)
	require.NoError(t, err)

	s.now = fixedClock(issuedAt.Add(30 * time.Minute))
	_, err = s.ValidateToken(token)
	assert.NoError(t, err)

	s.now = fixedClock(issuedAt.Add(2 * time.Hour))
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_DifferentSecret(t *testing.T) {
	token, err := NewJWTService(testSecret, "demo app", time.Hour).GenerateToken(1)
	require.NoError(t, err)

	_, err = NewJWTService("another_secret", "demo app", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_DifferentIssuer(t *testing.T) {
	token, err := NewJWTService(testSecret, "someone else", time.Hour).GenerateToken(1)
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, "demo app", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "demo app",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	s := NewJWTService(testSecret, "demo app", time.Hour)
	for _, token := range []string{hs256, none} {
		_, err := s.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestJWTService_RequiresExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "1", Issuer: "demo app"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, "demo app", time.Hour).ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestJWTService_Malformed(t *testing.T) {
	s := NewJWTService(testSecret, "demo app", time.Hour)
	for _, token := range []string{"", "invalid.jwt.token", "abc"} {
		_, err := s.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
