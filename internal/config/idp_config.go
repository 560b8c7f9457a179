package config

import (
	"fmt"
	"strings"
)

// AuthMode selects how the console exchanges credentials for tokens.
type AuthMode string

const (
	// AuthModeKeycloak talks straight to the identity provider's token
	// endpoint (password grant, refresh grant, authorization-code exchange).
	AuthModeKeycloak AuthMode = "keycloak"
	// AuthModeProxy goes through the AdsPay backend's /auth endpoints,
	// which wrap the token exchange in the resp_code envelope.
	AuthModeProxy AuthMode = "proxy"
)

type IdpConfig interface {
	GetAuthMode() AuthMode
	GetKeycloakURL() string
	GetKeycloakRealm() string
	GetKeycloakClientID() string
	GetIssuerURL() string
	ValidateIdp() error
}

type Idp struct{}

var _ IdpConfig = Idp{}

func (Idp) GetAuthMode() AuthMode {
	mode := AuthMode(strings.ToLower(GetEnv("AUTH_MODE", string(AuthModeKeycloak))))
	if mode != AuthModeProxy {
		mode = AuthModeKeycloak
	}
	return mode
}

func (Idp) GetKeycloakURL() string {
	return GetEnv("KEYCLOAK_URL", "")
}

func (Idp) GetKeycloakRealm() string {
	return GetEnv("KEYCLOAK_REALM", "")
}

func (Idp) GetKeycloakClientID() string {
	return GetEnv("KEYCLOAK_CLIENT", "adspay-dashboard-client")
}

// GetIssuerURL returns the OIDC issuer for the configured realm, used for
// discovery and ID token verification.
func (i Idp) GetIssuerURL() string {
	return fmt.Sprintf("%s/realms/%s", strings.TrimSuffix(i.GetKeycloakURL(), "/"), i.GetKeycloakRealm())
}

// ValidateIdp checks that the identity-provider settings required by the
// active auth mode are present. These are deployment inputs, not defaults.
func (i Idp) ValidateIdp() error {
	if i.GetAuthMode() == AuthModeKeycloak {
		if i.GetKeycloakURL() == "" {
			return fmt.Errorf("KEYCLOAK_URL is required in %q auth mode", AuthModeKeycloak)
		}
		if i.GetKeycloakRealm() == "" {
			return fmt.Errorf("KEYCLOAK_REALM is required in %q auth mode", AuthModeKeycloak)
		}
	}
	return nil
}
