package config

type Config interface {
	EnvConfig
	CorsConfig
	IdpConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetMode() string
	GetAPIBaseURL() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Idp
	Session
}

func New() Config {
	return mainConfig{}
}
