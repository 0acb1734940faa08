package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Payments     PaymentsConfig
	Settlement   SettlementConfig
	Voice        VoiceConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VYAPAARI_APP_ENV" required:"true"`
	Port         string `envconfig:"VYAPAARI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VYAPAARI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VYAPAARI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VYAPAARI_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VYAPAARI_DB_DSN"`
	Driver string `envconfig:"VYAPAARI_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"VYAPAARI_DB_HOST"`
	Port     int    `envconfig:"VYAPAARI_DB_PORT" default:"5432"`
	User     string `envconfig:"VYAPAARI_DB_USER"`
	Password string `envconfig:"VYAPAARI_DB_PASSWORD"`
	Name     string `envconfig:"VYAPAARI_DB_NAME"`
	SSLMode  string `envconfig:"VYAPAARI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VYAPAARI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VYAPAARI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VYAPAARI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VYAPAARI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VYAPAARI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VYAPAARI_REDIS_ADDR"`
	Password     string        `envconfig:"VYAPAARI_REDIS_PASSWORD"`
	DB           int           `envconfig:"VYAPAARI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VYAPAARI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VYAPAARI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VYAPAARI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VYAPAARI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VYAPAARI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PaymentsConfig controls payment-request creation behavior.
type PaymentsConfig struct {
	Currency        string        `envconfig:"VYAPAARI_PAYMENTS_CURRENCY" default:"INR"`
	RateLimitWindow time.Duration `envconfig:"VYAPAARI_PAYMENTS_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitCount  int           `envconfig:"VYAPAARI_PAYMENTS_RATE_LIMIT_COUNT" default:"60"`
}

// SettlementConfig controls the simulated QR settlement lifecycle.
type SettlementConfig struct {
	Delay      time.Duration `envconfig:"VYAPAARI_SETTLEMENT_DELAY" default:"3s"`
	PendingTTL time.Duration `envconfig:"VYAPAARI_SETTLEMENT_PENDING_TTL" default:"15m"`
}

// VoiceConfig controls voice-command session handling.
type VoiceConfig struct {
	SessionTTL time.Duration `envconfig:"VYAPAARI_VOICE_SESSION_TTL" default:"2m"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"VYAPAARI_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"VYAPAARI_CRON_LOCK_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VYAPAARI_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, envName := range requiredDBEnvVars {
		if legacyValues[envName] == "" {
			missing = append(missing, envName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
