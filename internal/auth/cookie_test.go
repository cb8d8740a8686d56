package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSigner(t *testing.T, now time.Time) *CookieSigner {
	t.Helper()
	s, err := NewCookieSigner(testSecret, time.Hour)
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestNewCookieSigner_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewCookieSigner("short", time.Hour)
	assert.Error(t, err)

	_, err = NewCookieSigner(testSecret, 0)
	assert.Error(t, err)
}

func TestCookieSigner_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	token, err := s.Encode("ann@example.org")
	require.NoError(t, err)

	email, err := s.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.org", email)
}

func TestCookieSigner_Expired(t *testing.T) {
	t.Parallel()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSigner(t, issued)

	token, err := s.Encode("ann@example.org")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = s.Decode(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestCookieSigner_RejectsOtherSecret(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSigner(t, now)

	other, err := NewCookieSigner("ffffffffffffffffffffffffffffffff", time.Hour)
	require.NoError(t, err)
	other.now = s.now
	token, err := other.Encode("mallory@example.org")
	require.NoError(t, err)

	_, err = s.Decode(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestCookieSigner_RejectsPlainEmail(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t, time.Now())

	_, err := s.Decode("ann@example.org")
	assert.Error(t, err)
}

func TestCookieSigner_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSigner(t, now)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "ann@example.org",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Decode(unsigned)
	assert.Error(t, err)
}
