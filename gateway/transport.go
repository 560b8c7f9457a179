// Package gateway decorates outgoing AdsPay API requests with the current
// bearer token. It is the reactive backstop to the refresh scheduler: a
// request hitting a just-expired token refreshes inline and carries the new
// token, so the narrow window between two scheduled refreshes stays covered.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/adspay/console/session"
)

// TokenRefresher is the shared refresh operation. Satisfied by
// *auth.Service, whose single-flight guard keeps this transport and the
// scheduler from racing each other into a double refresh.
type TokenRefresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Transport is an http.RoundTripper that attaches Authorization headers.
type Transport struct {
	sessions  *session.Manager
	refresher TokenRefresher
	base      http.RoundTripper
	nowTime   func() time.Time
}

var _ http.RoundTripper = (*Transport)(nil)

// TransportOption defines a function type to modify the Transport instance.
type TransportOption func(*Transport)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) TransportOption {
	return func(t *Transport) {
		t.nowTime = nowFunc
	}
}

// WithBase sets the underlying RoundTripper (defaults to
// http.DefaultTransport).
func WithBase(base http.RoundTripper) TransportOption {
	return func(t *Transport) {
		t.base = base
	}
}

func NewTransport(sessions *session.Manager, refresher TokenRefresher, options ...TransportOption) *Transport {
	t := &Transport{
		sessions:  sessions,
		refresher: refresher,
		base:      http.DefaultTransport,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// NewClient returns an http.Client whose requests carry the session's
// bearer token. This is the client the dashboard API layer is built on.
func NewClient(sessions *session.Manager, refresher TokenRefresher, options ...TransportOption) *http.Client {
	return &http.Client{Transport: NewTransport(sessions, refresher, options...)}
}

// RoundTrip reads the session synchronously on every request. A stale token
// is refreshed first and the request carries the newly obtained token, not
// the expired one. Without any token the request goes out bare and the
// backend's auth rejection surfaces to the caller as a plain HTTP failure.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	snap := t.sessions.State()

	switch {
	case snap.Expired(t.nowTime()):
		token, err := t.refresher.Refresh(req.Context())
		if err != nil {
			return nil, fmt.Errorf("refreshing stale token for %s %s: %w", req.Method, req.URL.Path, err)
		}
		req = withBearer(req, token)
	case snap.Authenticated():
		req = withBearer(req, snap.AccessToken)
	}

	return t.base.RoundTrip(req)
}

// withBearer clones the request before writing headers; RoundTrippers must
// not mutate the caller's request.
func withBearer(req *http.Request, token string) *http.Request {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return cloned
}
