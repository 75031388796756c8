package config

const (
	EnvPrefix = "greenmarket"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "GREENMARKET_APP_ENV"
	EnvPort        = "GREENMARKET_APP_PORT"
	EnvDBDSN       = "GREENMARKET_DB_DSN"
	EnvDatabaseURL = "DATABASE_URL"
	EnvDBHost      = "GREENMARKET_DB_HOST"
	EnvDBUser      = "GREENMARKET_DB_USER"
	EnvDBName      = "GREENMARKET_DB_NAME"
	EnvRedisURL    = "GREENMARKET_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
