package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// PRINTQUOTE_-prefixed names so the prefix stays documentation.
const EnvPrefix = "printquote"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvDBDSN  = "PRINTQUOTE_DB_DSN"
	EnvDBHost = "PRINTQUOTE_DB_HOST"
	EnvDBUser = "PRINTQUOTE_DB_USER"
	EnvDBName = "PRINTQUOTE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
