package server

import (
	"html/template"
	"net/http"

	apperrors "github.com/adspay/console/internal/errors"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName  string
	Error    string
	Username string // Preserve username on error
}

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.AppName}} - Sign in</title></head>
<body>
  <h1>{{.AppName}}</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form method="post" action="/auth/login">
    <input type="text" name="username" placeholder="Username" value="{{.Username}}" autofocus>
    <input type="password" name="password" placeholder="Password">
    <button type="submit">Sign in</button>
  </form>
</body>
</html>`))

var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.AppName}}</title></head>
<body>
  <h1>{{.AppName}}</h1>
  <p>Signed in as {{.Username}}{{if .Email}} ({{.Email}}){{end}}</p>
  <a href="/auth/logout">Sign out</a>
</body>
</html>`))

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderLogin(w, http.StatusOK, LoginPageData{AppName: s.config.GetAppName()})
	}
}

// LoginSubmissionHandler processes the login form (POST /auth/login). On
// success it navigates to the home route; on failure it stays on the entry
// screen with a visible error and no session mutation.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		if err := s.auth.Login(r.Context(), username, password); err != nil {
			message := "Login failed, please try again"
			if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
				message = "Invalid username or password"
			} else {
				log.Err(err).Msg("login exchange failed")
			}
			s.renderLogin(w, http.StatusUnauthorized, LoginPageData{
				AppName:  s.config.GetAppName(),
				Error:    message,
				Username: username,
			})
			return
		}

		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
	}
}

// CallbackHandler finishes the authorization-code flow (GET /callback).
// The state must match the cookie the guard planted before redirecting out.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			return
		}

		state := r.URL.Query().Get("state")
		cookie, err := r.Cookie(oauthStateCookieName)
		if err != nil || cookie.Value == "" || cookie.Value != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: oauthStateCookieName, Path: RouteCallback, MaxAge: -1})

		if err := s.auth.ExchangeCode(r.Context(), code, s.callbackURL(r)); err != nil {
			log.Err(err).Msg("authorization-code exchange failed")
			http.Error(w, "login exchange failed", http.StatusBadGateway)
			return
		}

		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
	}
}

// LogoutHandler revokes the session and returns to the login entry point.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(r.Context()); err != nil {
			log.Err(err).Msg("logout failed to clear session")
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// HomeHandler renders the protected shell (GET /).
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.sessions.State()
		data := struct {
			AppName  string
			Username string
			Email    string
		}{AppName: s.config.GetAppName()}
		if snap.User != nil {
			data.Username = snap.User.Username
			data.Email = snap.User.Email
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := homeTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render home template")
		}
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, status int, data LoginPageData) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := loginTmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render login template")
	}
}
