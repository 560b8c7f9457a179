package idp

import (
	"github.com/adspay/console/internal/utils"
	"github.com/adspay/console/session"
	"github.com/golang-jwt/jwt/v5"
)

// UserFromToken derives the session user from the token pair's JWT claims.
// The ID token carries preferred_username and email; Keycloak access tokens
// additionally carry realm roles. Claims are read without signature
// verification here: the tokens were just obtained (and, for ID tokens,
// verified) over the exchange channel, this is only claim extraction.
// When no usable claims exist the fallback username is used on its own.
func UserFromToken(tok *Token, fallbackUsername string) *session.User {
	user := &session.User{Username: fallbackUsername}
	if tok == nil {
		return user
	}
	applyClaims(tok.IDToken, user)
	applyClaims(tok.AccessToken, user)
	return user
}

func applyClaims(rawToken string, user *session.User) {
	if rawToken == "" {
		return
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return
	}
	if username, ok := claims["preferred_username"].(string); ok && username != "" {
		user.Username = username
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		user.Email = email
	}
	if realmAccess, ok := claims["realm_access"].(map[string]any); ok {
		if roles, ok := realmAccess["roles"].([]any); ok {
			if parsed := utils.ToStringSlice(roles); len(parsed) > 0 {
				user.Roles = parsed
			}
		}
	}
}
