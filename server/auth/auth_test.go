package auth

import (
	"testing"
	"time"

	"github.com/Daskott/rolodex/server/auth/key"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!Pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret!Pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestEncodeAndDecodeJWT(t *testing.T) {
	keyPair, err := key.GenerateKeyPair()
	require.NoError(t, err)

	claims := RolodexTokenClaims{
		FirstName:   "Jane",
		Surname:     "Doe",
		Permissions: []string{string(CONTACTS_MANAGE)},
		StandardClaims: jwt.StandardClaims{
			Subject:   "7",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}

	token, err := EncodeJWT(claims, keyPair)
	require.NoError(t, err)

	decoded, err := DecodeJWT(token, keyPair)
	require.NoError(t, err)
	assert.Equal(t, "7", decoded.Subject)
	assert.Equal(t, "Jane", decoded.FirstName)

	principal := NewPrincipal(decoded.Subject, decoded.Permissions...)
	assert.True(t, Allowed(principal, EDIT, CONTACT_KIND))
	assert.False(t, Allowed(principal, DELETE, CONTACT_KIND))

	otherKeyPair, err := key.GenerateKeyPair()
	require.NoError(t, err)

	_, err = DecodeJWT(token, otherKeyPair)
	assert.Error(t, err)
}
