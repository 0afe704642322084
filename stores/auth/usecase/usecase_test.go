package usecase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bCtx "github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/domain"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims domain.JwtCustomClaims) string {
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return ss
}

func TestParseToken(t *testing.T) {
	im := New(testSecret, nil)
	c := bCtx.Background()

	ss := signedToken(t, testSecret, domain.JwtCustomClaims{
		Address: "0xabc",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	address, err := im.ParseToken(c, ss)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", address)
}

func TestParseTokenMalformed(t *testing.T) {
	im := New(testSecret, nil)
	c := bCtx.Background()

	// garbage bearer tokens have to fail cleanly, not blow up the request
	for _, token := range []string{"", "garbage", "a.b.c", "Bearer xyz"} {
		address, err := im.ParseToken(c, token)
		assert.Error(t, err, token)
		assert.Empty(t, address, token)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	im := New(testSecret, nil)
	c := bCtx.Background()

	ss := signedToken(t, "another-secret", domain.JwtCustomClaims{
		Address: "0xabc",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	_, err := im.ParseToken(c, ss)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	im := New(testSecret, nil)
	c := bCtx.Background()

	ss := signedToken(t, testSecret, domain.JwtCustomClaims{
		Address: "0xabc",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	})

	_, err := im.ParseToken(c, ss)
	assert.Error(t, err)
}
