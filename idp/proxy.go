package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/adspay/console/envelope"
	apperrors "github.com/adspay/console/internal/errors"
)

// Proxy exchanges tokens through the AdsPay backend's /auth endpoints
// instead of talking to the identity provider directly. The backend wraps
// the exchange result in the resp_code envelope, so an HTTP 200 can still
// carry an application-level failure.
type Proxy struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*Proxy)(nil)

func NewProxy(baseURL string, httpClient *http.Client) *Proxy {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Proxy{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

type proxyTokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (p *Proxy) PasswordGrant(ctx context.Context, username, password string) (*Token, error) {
	var data proxyTokenData
	err := p.post(ctx, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &data)
	if err != nil {
		var envErr *envelope.Error
		if apperrors.As(err, &envErr) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrapf(err, "[Proxy PasswordGrant] login")
	}
	return &Token{AccessToken: data.AccessToken, RefreshToken: data.RefreshToken, ExpiresIn: data.ExpiresIn}, nil
}

func (p *Proxy) RefreshGrant(ctx context.Context, refreshToken string) (*Token, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrNoRefreshToken
	}
	var data proxyTokenData
	err := p.post(ctx, "/auth/refresh-token", map[string]string{
		"refresh_token": refreshToken,
	}, &data)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Proxy RefreshGrant] refresh")
	}
	return &Token{AccessToken: data.AccessToken, RefreshToken: data.RefreshToken, ExpiresIn: data.ExpiresIn}, nil
}

// ExchangeCode is not offered by the backend proxy; code exchange always
// goes straight to the identity provider.
func (p *Proxy) ExchangeCode(ctx context.Context, code, redirectURI string) (*Token, error) {
	return nil, apperrors.Wrapf(apperrors.ErrExchangeFailed, "[Proxy ExchangeCode] authorization-code exchange is unsupported in proxy mode")
}

func (p *Proxy) Revoke(ctx context.Context, refreshToken string) error {
	err := p.post(ctx, "/auth/logout", map[string]string{
		"refresh_token":   refreshToken,
		"token_type_hint": "refresh_token",
	}, nil)
	if err != nil {
		return apperrors.Wrapf(err, "[Proxy Revoke] logout")
	}
	return nil
}

func (p *Proxy) post(ctx context.Context, path string, body map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return envelope.Decode(resp.Body, out)
}
