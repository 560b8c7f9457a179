// Package idp exchanges credentials with the identity provider. Two
// implementations exist: Keycloak talks straight to the realm's OIDC token
// endpoint, Proxy goes through the AdsPay backend's /auth endpoints which
// wrap the same exchange in the resp_code envelope.
package idp

import "context"

// Token is the result of any grant exchange. ExpiresIn is the relative
// access-token lifetime in seconds as reported by the provider; converting
// it to an absolute deadline is the caller's job.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	IDToken      string
}

// Client is the identity-provider exchange surface used by the auth flows.
type Client interface {
	// PasswordGrant performs a direct credential exchange.
	PasswordGrant(ctx context.Context, username, password string) (*Token, error)
	// RefreshGrant exchanges a refresh token for a fresh token pair. The
	// provider may rotate the refresh token on every use.
	RefreshGrant(ctx context.Context, refreshToken string) (*Token, error)
	// ExchangeCode redeems an authorization code from the external login
	// redirect. redirectURI must match the one used in the authorize request.
	ExchangeCode(ctx context.Context, code, redirectURI string) (*Token, error)
	// Revoke invalidates the refresh token at the provider. Best-effort;
	// logout clears the local session regardless.
	Revoke(ctx context.Context, refreshToken string) error
}
