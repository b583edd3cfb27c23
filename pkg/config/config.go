package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "ESTORE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names, spelled out for tests and tooling.
const (
	EnvAppEnv        = "ESTORE_APP_ENV"
	EnvLogLevel      = "ESTORE_LOG_LEVEL"
	EnvCatalogURL    = "ESTORE_CATALOG_URL"
	EnvStorageDriver = "ESTORE_STORAGE_DRIVER"
	EnvStoragePath   = "ESTORE_STORAGE_PATH"
	EnvStorageOrigin = "ESTORE_STORAGE_ORIGIN"
	EnvRedisURL      = "ESTORE_REDIS_URL"
	EnvServerPort    = "ESTORE_SERVER_PORT"
)

// Storage driver names accepted by StorageConfig.Driver.
const (
	StorageDriverMemory = "memory"
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Storage StorageConfig
	Redis   RedisConfig
	Server  ServerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ESTORE_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"ESTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ESTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points the client at the catalog/order service.
type CatalogConfig struct {
	BaseURL string        `envconfig:"ESTORE_CATALOG_URL" default:"http://localhost:3500"`
	Timeout time.Duration `envconfig:"ESTORE_CATALOG_TIMEOUT" default:"10s"`
}

// StorageConfig selects the persistent key/value backend. Origin namespaces
// keys so separate deployments never read each other's state.
type StorageConfig struct {
	Driver string `envconfig:"ESTORE_STORAGE_DRIVER" default:"memory"`
	Path   string `envconfig:"ESTORE_STORAGE_PATH" default:"storefront.db"`
	Origin string `envconfig:"ESTORE_STORAGE_ORIGIN" default:"localhost"`
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case StorageDriverMemory, StorageDriverRedis:
		return nil
	case StorageDriverSQLite:
		if s.Path == "" {
			return fmt.Errorf("%s is required for the sqlite storage driver", EnvStoragePath)
		}
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"ESTORE_REDIS_URL"`
	Address      string        `envconfig:"ESTORE_REDIS_ADDR"`
	Password     string        `envconfig:"ESTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ESTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ESTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ESTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ESTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ESTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ESTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ServerConfig configures the development mock catalog server.
type ServerConfig struct {
	Port string `envconfig:"ESTORE_SERVER_PORT" default:"3500"`
}
