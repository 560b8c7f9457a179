package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const oauthStateCookieName = "oauth_state"

// RequireSession is the route guard: every protected route evaluates the
// session synchronously on each request. Without an access token the
// request is redirected to the login entry point: the local login page, or
// the identity provider's login page when the console runs in keycloak
// mode. The check is idempotent and has no side effect beyond the redirect
// (and the state cookie the external flow needs).
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.sessions.State().Authenticated() {
				next(w, r)
				return
			}
			s.redirectToLogin(w, r)
		}
	}
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if s.keycloak == nil {
		// 303 so back-navigation from the login page doesn't loop
		// through the guarded URL.
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     RouteCallback,
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.keycloak.AuthURL(state, s.callbackURL(r)), http.StatusSeeOther)
}

func (s *Server) callbackURL(r *http.Request) string {
	return fmt.Sprintf("%s://%s%s", getScheme(r), r.Host, RouteCallback)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
