package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTProviderRoundTrip(t *testing.T) {
	p := NewJWTProvider("test-secret")

	token, err := p.GenerateToken("ext-42", "maya@example.com", "Maya Patel")
	require.NoError(t, err)

	identity, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ext-42", identity.ExternalID)
	assert.Equal(t, "maya@example.com", identity.Email)
	assert.Equal(t, "Maya Patel", identity.Name)
}

func TestJWTProviderRejectsWrongSecret(t *testing.T) {
	p := NewJWTProvider("test-secret")
	token, err := p.GenerateToken("ext-42", "maya@example.com", "Maya Patel")
	require.NoError(t, err)

	_, err = NewJWTProvider("other-secret").Verify(token)
	assert.Error(t, err)
}

func TestJWTProviderRejectsMalformedSubject(t *testing.T) {
	p := NewJWTProvider("test-secret")

	signed := func(claims jwt.MapClaims) string {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}

	// A well-signed token is still rejected when sub is missing, empty or
	// not a string
	for _, claims := range []jwt.MapClaims{
		{"email": "no-sub@example.com"},
		{"sub": ""},
		{"sub": 12345},
	} {
		_, err := p.Verify(signed(claims))
		assert.Error(t, err)
	}
}
