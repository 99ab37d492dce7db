package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAdminGateAuthenticateAndValidate(t *testing.T) {
	gate, err := NewAdminGate("s3cret", testSecret, time.Hour)
	require.NoError(t, err)

	token, expiresAt, err := gate.Authenticate("s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	assert.True(t, gate.Validate(token))
	assert.False(t, gate.Validate(""))
	assert.False(t, gate.Validate("garbage"))
}

func TestAdminGateRejectsWrongPassword(t *testing.T) {
	gate, err := NewAdminGate("s3cret", testSecret, time.Hour)
	require.NoError(t, err)

	_, _, err = gate.Authenticate("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAdminGateAcceptsBcryptHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	gate, err := NewAdminGate(hash, testSecret, time.Hour)
	require.NoError(t, err)

	_, _, err = gate.Authenticate("s3cret")
	assert.NoError(t, err)

	_, _, err = gate.Authenticate(hash)
	assert.Error(t, err)
}

func TestAdminGateTokenExpires(t *testing.T) {
	gate, err := NewAdminGate("s3cret", testSecret, time.Hour)
	require.NoError(t, err)

	issued := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return issued }
	token, _, err := gate.Authenticate("s3cret")
	require.NoError(t, err)
	assert.True(t, gate.Validate(token))

	gate.now = func() time.Time { return issued.Add(61 * time.Minute) }
	assert.False(t, gate.Validate(token))
}

func TestAdminGateRejectsForeignTokens(t *testing.T) {
	gate, err := NewAdminGate("s3cret", testSecret, time.Hour)
	require.NoError(t, err)

	other, err := NewAdminGate("s3cret", "ffffffffffffffffffffffffffffffff", time.Hour)
	require.NoError(t, err)
	token, _, err := other.Authenticate("s3cret")
	require.NoError(t, err)
	assert.False(t, gate.Validate(token))

	claims := jwt.RegisteredClaims{
		Subject:   "someone-else",
		Issuer:    DefaultIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	assert.False(t, gate.Validate(forged))
}

func TestNewAdminGateValidatesConfig(t *testing.T) {
	_, err := NewAdminGate("", testSecret, time.Hour)
	assert.Error(t, err)

	_, err = NewAdminGate("pw", "short", time.Hour)
	assert.Error(t, err)

	gate, err := NewAdminGate("pw", testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, gate.TTL())
}
