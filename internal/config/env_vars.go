package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
	modeEnvVar    = "MODE"
	baseURLVar    = "BASE_URL"
	baseURLDevVar = "BASE_URL_DEV"
)

// ModeProduction selects the production API base URL; anything else falls
// back to the development one.
const ModeProduction = "production"

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "AdsPay Console")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetMode() string {
	return GetEnv(modeEnvVar, "development")
}

// GetAPIBaseURL returns the AdsPay backend base URL. The MODE variable
// selects between the production and development URLs, mirroring how the
// dashboard is deployed against separate environments.
func (e EnvVars) GetAPIBaseURL() string {
	if e.GetMode() == ModeProduction {
		return GetEnv(baseURLVar, "")
	}
	return GetEnv(baseURLDevVar, GetEnv(baseURLVar, ""))
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
