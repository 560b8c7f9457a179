package idp_test

import (
	"testing"

	"github.com/adspay/console/idp"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func TestUserFromTokenReadsIDTokenClaims(t *testing.T) {
	tok := &idp.Token{
		IDToken: signedToken(t, jwt.MapClaims{
			"preferred_username": "admin",
			"email":              "admin@adspay.id",
		}),
	}

	user := idp.UserFromToken(tok, "fallback")
	require.Equal(t, "admin", user.Username)
	require.Equal(t, "admin@adspay.id", user.Email)
}

func TestUserFromTokenReadsRealmRolesFromAccessToken(t *testing.T) {
	tok := &idp.Token{
		AccessToken: signedToken(t, jwt.MapClaims{
			"preferred_username": "admin",
			"realm_access": map[string]any{
				"roles": []any{"console-admin", "offline_access"},
			},
		}),
	}

	user := idp.UserFromToken(tok, "")
	require.Equal(t, "admin", user.Username)
	require.Equal(t, []string{"console-admin", "offline_access"}, user.Roles)
}

func TestUserFromTokenAccessTokenClaimsWinOverIDToken(t *testing.T) {
	tok := &idp.Token{
		IDToken: signedToken(t, jwt.MapClaims{
			"preferred_username": "id-token-name",
		}),
		AccessToken: signedToken(t, jwt.MapClaims{
			"preferred_username": "access-token-name",
			"email":              "admin@adspay.id",
		}),
	}

	user := idp.UserFromToken(tok, "")
	require.Equal(t, "access-token-name", user.Username)
	require.Equal(t, "admin@adspay.id", user.Email)
}

func TestUserFromTokenOpaqueTokenFallsBack(t *testing.T) {
	tok := &idp.Token{AccessToken: "not-a-jwt"}

	user := idp.UserFromToken(tok, "submitted-name")
	require.Equal(t, "submitted-name", user.Username)
	require.Empty(t, user.Email)
	require.Empty(t, user.Roles)
}

func TestUserFromTokenNilToken(t *testing.T) {
	user := idp.UserFromToken(nil, "submitted-name")
	require.Equal(t, "submitted-name", user.Username)
}
