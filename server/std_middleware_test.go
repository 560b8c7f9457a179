package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCorsPreflightForAllowedOrigin(t *testing.T) {
	c := newConsole(t, nil)
	c.signIn(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/admins", nil)
	req.Header.Set("Origin", "console.adspay.id")

	resp := c.request(req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "console.adspay.id", resp.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
	require.NotEmpty(t, resp.Header().Get("Access-Control-Allow-Methods"))
}

func TestCorsPreflightForUnknownOrigin(t *testing.T) {
	c := newConsole(t, nil)
	c.signIn(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/admins", nil)
	req.Header.Set("Origin", "https://evil.example")

	resp := c.request(req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestFrameSecurityHeadersOnShellRoutes(t *testing.T) {
	c := newConsole(t, nil)
	c.signIn(t)

	resp := c.request(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "SAMEORIGIN", resp.Header().Get("X-Frame-Options"))
	require.Equal(t, "frame-ancestors 'self'", resp.Header().Get("Content-Security-Policy"))
}
