package sdk_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraconstructs/shopctl/pkg/sdk"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]sdk.Role{
		"customer": sdk.RoleCustomer,
		"Vendor":   sdk.RoleVendor,
		" ADMIN ":  sdk.RoleAdmin,
	} {
		got, err := sdk.ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.True(t, got.Valid())
	}

	_, err := sdk.ParseRole("superuser")
	assert.Error(t, err)
	assert.False(t, sdk.Role("").Valid())
	assert.False(t, sdk.Role("Admin").Valid())
}

func TestDecodeToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub":  "user-42",
		"role": "vendor",
		"exp":  exp.Unix(),
	})

	claims, err := sdk.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "vendor", claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))

	role, err := sdk.RoleFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, sdk.RoleVendor, role)
}

func TestDecodeToken_UserIDFallback(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"user_id": 7})
	claims, err := sdk.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)

	_, err = sdk.RoleFromToken(token)
	assert.Error(t, err)
}

func TestDecodeToken_Opaque(t *testing.T) {
	_, err := sdk.DecodeToken("not-a-jwt")
	assert.True(t, errors.Is(err, sdk.ErrOpaqueToken))

	_, err = sdk.RoleFromToken("opaque")
	assert.Error(t, err)
}
