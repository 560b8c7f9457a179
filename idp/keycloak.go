package idp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/adspay/console/internal/errors"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Keycloak exchanges tokens directly with a Keycloak realm using standard
// OAuth2 grants. Endpoints come from OIDC discovery on the realm issuer.
type Keycloak struct {
	oauth      oauth2.Config
	verifier   *oidc.IDTokenVerifier
	revokeURL  string
	httpClient *http.Client
}

var _ Client = (*Keycloak)(nil)

type KeycloakOption func(*Keycloak)

// WithHTTPClient overrides the HTTP client used for discovery and every
// token-endpoint call.
func WithHTTPClient(client *http.Client) KeycloakOption {
	return func(k *Keycloak) {
		k.httpClient = client
	}
}

// NewKeycloak discovers the realm's endpoints and returns a client for it.
// issuer is the realm issuer URL (e.g. https://kc.example.com/realms/adspay).
func NewKeycloak(ctx context.Context, issuer, clientID string, options ...KeycloakOption) (*Keycloak, error) {
	k := &Keycloak{httpClient: http.DefaultClient}
	for _, opt := range options {
		opt(k)
	}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, k.httpClient), issuer)
	if err != nil {
		return nil, fmt.Errorf("[NewKeycloak] discovering issuer %q: %w", issuer, err)
	}

	k.oauth = oauth2.Config{
		ClientID: clientID,
		Endpoint: provider.Endpoint(),
		Scopes:   []string{oidc.ScopeOpenID, "profile", "email"},
	}
	k.verifier = provider.Verifier(&oidc.Config{ClientID: clientID})
	k.revokeURL = strings.TrimSuffix(issuer, "/") + "/protocol/openid-connect/logout"
	return k, nil
}

// AuthURL builds the external login URL for the authorization-code flow.
// The console redirects unauthenticated browsers here in keycloak mode.
func (k *Keycloak) AuthURL(state, redirectURI string) string {
	cfg := k.oauth
	cfg.RedirectURL = redirectURI
	return cfg.AuthCodeURL(state)
}

func (k *Keycloak) PasswordGrant(ctx context.Context, username, password string) (*Token, error) {
	tok, err := k.oauth.PasswordCredentialsToken(k.clientContext(ctx), username, password)
	if err != nil {
		if isAuthRejection(err) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrapf(err, "[Keycloak PasswordGrant] token exchange")
	}
	return fromOAuth2Token(tok), nil
}

func (k *Keycloak) RefreshGrant(ctx context.Context, refreshToken string) (*Token, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrNoRefreshToken
	}
	src := k.oauth.TokenSource(k.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Keycloak RefreshGrant] token exchange")
	}
	out := fromOAuth2Token(tok)
	if out.RefreshToken == "" {
		// Provider did not rotate; the old token stays valid.
		out.RefreshToken = refreshToken
	}
	return out, nil
}

func (k *Keycloak) ExchangeCode(ctx context.Context, code, redirectURI string) (*Token, error) {
	cfg := k.oauth
	cfg.RedirectURL = redirectURI
	tok, err := cfg.Exchange(k.clientContext(ctx), code)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Keycloak ExchangeCode] code exchange")
	}
	out := fromOAuth2Token(tok)
	if out.IDToken != "" {
		if _, err := k.verifier.Verify(oidc.ClientContext(ctx, k.httpClient), out.IDToken); err != nil {
			return nil, apperrors.Wrapf(err, "[Keycloak ExchangeCode] verifying ID token")
		}
	}
	return out, nil
}

// Revoke posts the refresh token to the realm's logout endpoint,
// invalidating the provider-side session.
func (k *Keycloak) Revoke(ctx context.Context, refreshToken string) error {
	form := url.Values{
		"client_id":     {k.oauth.ClientID},
		"refresh_token": {refreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("[Keycloak Revoke] building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[Keycloak Revoke] posting logout: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("[Keycloak Revoke] logout rejected with status %d", resp.StatusCode)
	}
	return nil
}

func (k *Keycloak) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, k.httpClient)
}

func fromOAuth2Token(tok *oauth2.Token) *Token {
	out := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    tok.ExpiresIn,
	}
	if out.ExpiresIn == 0 && !tok.Expiry.IsZero() {
		out.ExpiresIn = int64(time.Until(tok.Expiry) / time.Second)
	}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		out.IDToken = idToken
	}
	return out
}

func isAuthRejection(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if !apperrors.As(err, &retrieveErr) || retrieveErr.Response == nil {
		return false
	}
	code := retrieveErr.Response.StatusCode
	return code == http.StatusBadRequest || code == http.StatusUnauthorized
}
