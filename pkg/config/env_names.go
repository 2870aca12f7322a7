package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "SHOPPING_APP_ENV"

	EnvDBDSN  = "SHOPPING_DB_DSN"
	EnvDBHost = "SHOPPING_DB_HOST"
	EnvDBUser = "SHOPPING_DB_USER"
	EnvDBName = "SHOPPING_DB_NAME"
)
