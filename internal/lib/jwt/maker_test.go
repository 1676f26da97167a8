package jwt_test

import (
	"testing"
	"time"

	"github.com/magabrotheeeer/account-service/internal/lib/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	maker := jwt.NewMaker(testSecretKey, time.Hour)

	token, err := maker.GenerateToken("some-user-uid")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "some-user-uid", claims.UserUID)
	assert.Equal(t, "some-user-uid", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseToken_Expired(t *testing.T) {
	maker := jwt.NewMaker(testSecretKey, -time.Minute)

	token, err := maker.GenerateToken("some-user-uid")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_WrongKey(t *testing.T) {
	maker := jwt.NewMaker(testSecretKey, time.Hour)
	otherMaker := jwt.NewMaker("another-secret-key", time.Hour)

	token, err := maker.GenerateToken("some-user-uid")
	require.NoError(t, err)

	claims, err := otherMaker.ParseToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseToken_Malformed(t *testing.T) {
	maker := jwt.NewMaker(testSecretKey, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "garbage", token: "not-a-jwt-at-all"},
		{name: "truncated token", token: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
		})
	}
}
