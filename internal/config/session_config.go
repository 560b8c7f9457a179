package config

import "time"

type SessionConfig interface {
	GetRefreshLead() time.Duration
	GetCredentialFile() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetRefreshLead is how long before access-token expiry the scheduler
// refreshes, to tolerate clock skew and exchange latency.
func (Session) GetRefreshLead() time.Duration {
	return 30 * time.Second
}

func (Session) GetCredentialFile() string {
	return GetEnv("CREDENTIAL_FILE", "credentials.db")
}
