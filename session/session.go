// Package session holds the console's process-wide session tuple: the
// authenticated user, the bearer token pair, and the absolute access-token
// expiry. The tuple is durable through the credential store and is the only
// shared mutable state in the console.
package session

import "time"

// Durable credential-store keys. Each entry is obfuscated independently.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyExpiresAt    = "expiresAt"
)

// User is the authenticated console operator. The direct login flow only
// knows the submitted username; the code-exchange flow enriches it with
// email and roles from the profile endpoint or ID-token claims.
type User struct {
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// Snapshot is a point-in-time copy of the session tuple. A zero ExpiresAt
// means no expiry is recorded.
type Snapshot struct {
	User         *User
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // epoch milliseconds, absolute deadline
}

// Authenticated reports whether the session holds an access token. This is
// the single authentication predicate used by the route guard and gateway.
func (s Snapshot) Authenticated() bool {
	return s.AccessToken != ""
}

// Expired reports whether the access token's deadline has passed. All
// expiry comparisons are now >= ExpiresAt; ExpiresAt is never a duration.
func (s Snapshot) Expired(now time.Time) bool {
	return s.ExpiresAt != 0 && now.UnixMilli() >= s.ExpiresAt
}
