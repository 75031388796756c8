package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
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
	Env          string `envconfig:"GREENMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"GREENMARKET_APP_PORT" default:"10000"`
	LogLevel     string `envconfig:"GREENMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GREENMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GREENMARKET_DB_DSN"`
	Driver string `envconfig:"GREENMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GREENMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"GREENMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GREENMARKET_DB_USER"`
	LegacyPassword string `envconfig:"GREENMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"GREENMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"GREENMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GREENMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GREENMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GREENMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GREENMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GREENMARKET_REDIS_URL"`
	Address      string        `envconfig:"GREENMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"GREENMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"GREENMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GREENMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GREENMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GREENMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GREENMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GREENMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured. Redis is optional:
// without it the checkout idempotency guard is simply skipped.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate    bool `envconfig:"GREENMARKET_AUTO_MIGRATE" default:"false"`
	SeedSampleData bool `envconfig:"GREENMARKET_SEED_SAMPLE_DATA" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	// Deployment platforms hand us a single connection string.
	if fromPlatform := os.Getenv(EnvDatabaseURL); fromPlatform != "" {
		db.DSN = fromPlatform
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
		return fmt.Errorf("either %s, %s, or %s are required", EnvDBDSN, EnvDatabaseURL, strings.Join(missing, ", "))
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
