package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Cooperative   CooperativeConfig
	Gemini        GeminiConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"KOPERASI_APP_ENV" required:"true"`
	Port         string `envconfig:"KOPERASI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KOPERASI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KOPERASI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KOPERASI_DB_DSN"`
	Driver string `envconfig:"KOPERASI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KOPERASI_DB_HOST"`
	LegacyPort     int    `envconfig:"KOPERASI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KOPERASI_DB_USER"`
	LegacyPassword string `envconfig:"KOPERASI_DB_PASSWORD"`
	LegacyName     string `envconfig:"KOPERASI_DB_NAME"`
	LegacySSLMode  string `envconfig:"KOPERASI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KOPERASI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KOPERASI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KOPERASI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KOPERASI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KOPERASI_REDIS_URL"`
	Address      string        `envconfig:"KOPERASI_REDIS_ADDR"`
	Password     string        `envconfig:"KOPERASI_REDIS_PASSWORD"`
	DB           int           `envconfig:"KOPERASI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KOPERASI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KOPERASI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KOPERASI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KOPERASI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KOPERASI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KOPERASI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KOPERASI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KOPERASI_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KOPERASI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KOPERASI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KOPERASI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KOPERASI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KOPERASI_ARGON_KEY_LEN" default:"32"`
}

// CooperativeConfig carries cooperative profile values surfaced to members.
type CooperativeConfig struct {
	Name       string `envconfig:"KOPERASI_NAME" default:"UB Qurrotul 'Ibaad"`
	AdminPhone string `envconfig:"KOPERASI_ADMIN_PHONE"`
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"KOPERASI_GEMINI_API_KEY"`
	Model   string        `envconfig:"KOPERASI_GEMINI_MODEL" default:"gemini-2.5-flash"`
	Timeout time.Duration `envconfig:"KOPERASI_GEMINI_TIMEOUT" default:"20s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"KOPERASI_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"KOPERASI_PUBSUB_NOTIFICATION_TOPIC" default:"koperasi-notification-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"KOPERASI_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"KOPERASI_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"KOPERASI_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KOPERASI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KOPERASI_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KOPERASI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KOPERASI_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KOPERASI_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KOPERASI_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KOPERASI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KOPERASI_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
