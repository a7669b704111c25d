package config

// EnvPrefix is applied by envconfig when resolving variables.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "KOPERASI_DB_DSN"
	EnvDBHost = "KOPERASI_DB_HOST"
	EnvDBUser = "KOPERASI_DB_USER"
	EnvDBName = "KOPERASI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
