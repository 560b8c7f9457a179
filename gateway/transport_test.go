package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adspay/console/credstore"
	"github.com/adspay/console/credstore/memory"
	"github.com/adspay/console/gateway"
	apperrors "github.com/adspay/console/internal/errors"
	"github.com/adspay/console/session"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1735689600000)

type fakeRefresher struct {
	calls int
	token string
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

func newAuthServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var headers []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &headers
}

func newTestClient(t *testing.T, refresher gateway.TokenRefresher) (*http.Client, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(credstore.New(memory.New()))
	client := gateway.NewClient(sessions, refresher,
		gateway.WithNowTime(func() time.Time { return fixedNow }))
	return client, sessions
}

func TestRoundTripAttachesFreshToken(t *testing.T) {
	server, headers := newAuthServer(t)
	refresher := &fakeRefresher{}
	client, sessions := newTestClient(t, refresher)
	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", fixedNow.Add(time.Minute).UnixMilli()))

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{"Bearer at-1"}, *headers)
	require.Zero(t, refresher.calls)
}

func TestRoundTripWithoutSessionGoesBare(t *testing.T) {
	server, headers := newAuthServer(t)
	refresher := &fakeRefresher{}
	client, _ := newTestClient(t, refresher)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{""}, *headers)
	require.Zero(t, refresher.calls)
}

func TestRoundTripRefreshesStaleToken(t *testing.T) {
	server, headers := newAuthServer(t)
	refresher := &fakeRefresher{token: "at-2"}
	client, sessions := newTestClient(t, refresher)
	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", fixedNow.Add(-time.Second).UnixMilli()))

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, 1, refresher.calls)
	require.Equal(t, []string{"Bearer at-2"}, *headers, "the request carries the refreshed token, not the stale one")
}

func TestRoundTripTokenAtExactDeadlineIsStale(t *testing.T) {
	server, headers := newAuthServer(t)
	refresher := &fakeRefresher{token: "at-2"}
	client, sessions := newTestClient(t, refresher)
	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", fixedNow.UnixMilli()))

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{"Bearer at-2"}, *headers)
}

func TestRoundTripPropagatesRefreshFailure(t *testing.T) {
	server, headers := newAuthServer(t)
	refresher := &fakeRefresher{err: apperrors.ErrNoRefreshToken}
	client, sessions := newTestClient(t, refresher)
	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", fixedNow.Add(-time.Second).UnixMilli()))

	_, err := client.Get(server.URL) //nolint:bodyclose // the round trip fails before a response exists
	require.ErrorIs(t, err, apperrors.ErrNoRefreshToken)
	require.Empty(t, *headers, "the request never reaches the backend")
}

func TestRoundTripDoesNotMutateCallerRequest(t *testing.T) {
	server, _ := newAuthServer(t)
	client, sessions := newTestClient(t, &fakeRefresher{})
	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", fixedNow.Add(time.Minute).UnixMilli()))

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Empty(t, req.Header.Get("Authorization"))
}
