package config

// EnvPrefix is intentionally empty: every field carries its fully
// qualified VYAPAARI_* name in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "VYAPAARI_APP_ENV"
	EnvPort     = "VYAPAARI_APP_PORT"
	EnvLogLevel = "VYAPAARI_LOG_LEVEL"

	EnvDBDSN  = "VYAPAARI_DB_DSN"
	EnvDBHost = "VYAPAARI_DB_HOST"
	EnvDBUser = "VYAPAARI_DB_USER"
	EnvDBName = "VYAPAARI_DB_NAME"

	EnvRedisURL = "VYAPAARI_REDIS_URL"

	EnvSettlementDelay      = "VYAPAARI_SETTLEMENT_DELAY"
	EnvSettlementPendingTTL = "VYAPAARI_SETTLEMENT_PENDING_TTL"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
