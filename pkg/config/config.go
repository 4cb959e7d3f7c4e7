package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	API          APIConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
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
	Env          string `envconfig:"PRINTQUOTE_APP_ENV" required:"true"`
	Port         string `envconfig:"PRINTQUOTE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRINTQUOTE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRINTQUOTE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	CORSOrigins []string `envconfig:"PRINTQUOTE_API_CORS_ORIGINS" default:"http://localhost:3000"`
}

type DBConfig struct {
	DSN    string `envconfig:"PRINTQUOTE_DB_DSN"`
	Driver string `envconfig:"PRINTQUOTE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRINTQUOTE_DB_HOST"`
	LegacyPort     int    `envconfig:"PRINTQUOTE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRINTQUOTE_DB_USER"`
	LegacyPassword string `envconfig:"PRINTQUOTE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRINTQUOTE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRINTQUOTE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRINTQUOTE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRINTQUOTE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRINTQUOTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRINTQUOTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRINTQUOTE_REDIS_URL"`
	Address      string        `envconfig:"PRINTQUOTE_REDIS_ADDR"`
	Password     string        `envconfig:"PRINTQUOTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRINTQUOTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRINTQUOTE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRINTQUOTE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRINTQUOTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRINTQUOTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRINTQUOTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig carries the process-wide pricing defaults the resolvers fall
// back to when neither product nor category supplies a value.
type PricingConfig struct {
	DefaultMarkup          decimal.Decimal `envconfig:"PRINTQUOTE_PRICING_DEFAULT_MARKUP" default:"0.15"`
	DefaultMargin          decimal.Decimal `envconfig:"PRINTQUOTE_PRICING_DEFAULT_MARGIN" default:"0.30"`
	VATPercent             decimal.Decimal `envconfig:"PRINTQUOTE_PRICING_VAT_PERCENT" default:"0.20"`
	MatrixWorkers          int             `envconfig:"PRINTQUOTE_PRICING_MATRIX_WORKERS" default:"4"`
	QuoteIdempotencyTTL    time.Duration   `envconfig:"PRINTQUOTE_QUOTE_IDEMPOTENCY_TTL" default:"168h"`
	MaxMatrixQuantities    int             `envconfig:"PRINTQUOTE_PRICING_MAX_MATRIX_QUANTITIES" default:"50"`
	EstimatedHoursFallback float64         `envconfig:"PRINTQUOTE_PRICING_ESTIMATED_HOURS_FALLBACK" default:"1"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PRINTQUOTE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PRINTQUOTE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, DriverSQLite) {
		db.DSN = "file::memory:?cache=shared"
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
