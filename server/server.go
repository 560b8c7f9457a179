// Package server is the console's HTTP shell: the login and callback
// screens, the route guard in front of every protected view, and JSON
// endpoints proxying the AdsPay backend through the authenticated gateway
// client.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/adspay/console/auth"
	"github.com/adspay/console/dashboard"
	"github.com/adspay/console/idp"
	"github.com/adspay/console/internal/config"
	"github.com/adspay/console/session"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config

	sessions  *session.Manager
	auth      *auth.Service
	dashboard *dashboard.Client

	// keycloak is set in keycloak auth mode; the guard uses it to build
	// the external login URL for the authorization-code flow.
	keycloak *idp.Keycloak
}

// Deps carries the wired collaborators the server composes over. The
// session manager, auth service and gateway-backed dashboard client are
// shared with the scheduler, so every component sees one session.
type Deps struct {
	Sessions  *session.Manager
	Auth      *auth.Service
	Dashboard *dashboard.Client
	Keycloak  *idp.Keycloak
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Sessions == nil {
		return nil, fmt.Errorf("[Server New] session manager is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("[Server New] auth service is required")
	}
	if deps.Dashboard == nil {
		return nil, fmt.Errorf("[Server New] dashboard client is required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		sessions:  deps.Sessions,
		auth:      deps.Auth,
		dashboard: deps.Dashboard,
		keycloak:  deps.Keycloak,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
