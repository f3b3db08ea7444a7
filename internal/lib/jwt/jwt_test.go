package jwt

import (
	"github.com/brianvoe/gofakeit/v7"
	jwtGo "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestNewSigned_RoundTrip(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	subject := gofakeit.UUID()

	token, err := NewSigned(subject, gofakeit.Email(), "secret", issued, 50*time.Minute)
	require.NoError(t, err)

	exp, err := ExpiresAt(token)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(50*time.Minute).Unix(), exp.Unix())

	iat, ok := IssuedAt(token)
	require.True(t, ok)
	assert.Equal(t, issued.Unix(), iat.Unix())

	unverified, ok := SubjectUnverified(token)
	require.True(t, ok)
	assert.Equal(t, subject, unverified)

	sub, err := Subject(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, subject, sub)
}

func TestSubject_WrongSecret(t *testing.T) {
	token, err := NewSigned("u1", "", "secret", time.Now(), time.Minute)
	require.NoError(t, err)

	_, err = Subject(token, "other")
	assert.Error(t, err)
}

func TestExpiresAt_NoExpClaim(t *testing.T) {
	token, err := jwtGo.NewWithClaims(jwtGo.SigningMethodHS256, jwtGo.MapClaims{"sub": "x"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = ExpiresAt(token)
	assert.ErrorIs(t, err, ErrNoExpiry)
}

func TestExpiresAt_Malformed(t *testing.T) {
	_, err := ExpiresAt("not-a-jwt")
	assert.Error(t, err)

	_, ok := IssuedAt("not-a-jwt")
	assert.False(t, ok)
}
