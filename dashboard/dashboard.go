// Package dashboard is the typed client for the AdsPay backend's web API:
// admin users, end users with saldo/KYC detail, operational and escrow
// accounts, and transaction history. All calls ride the gateway client, so
// bearer tokens and silent refresh come for free, and all responses speak
// the resp_code envelope.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/adspay/console/envelope"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient wraps an authenticated HTTP client (normally built by
// gateway.NewClient) for the backend at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req, out)
	return err
}

// sendJSON performs a mutating call and returns the backend's resp_message.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any) (string, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%s %s returned status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	return envelope.DecodeMessage(resp.Body, out)
}
