package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// PathEnv names the environment variable holding an optional YAML config file
const PathEnv = "LEDGER_CONFIG"

// Config holds all application configuration
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	NewRelic NewRelicConfig `yaml:"newrelic"`
	Cache    CacheConfig    `yaml:"cache"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Export   ExportConfig   `yaml:"export"`
	Log      LogConfig      `yaml:"log"`
}

type AppConfig struct {
	Name string `yaml:"name" env:"APP_NAME" env-default:"ride-ledger"`
	Env  string `yaml:"env" env:"APP_ENV" env-default:"development"`
}

type DatabaseConfig struct {
	Driver         string        `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host           string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name           string        `yaml:"name" env:"DB_NAME" env-default:"ride_ledger"`
	User           string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password       string        `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
	SSLMode        string        `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	MaxConnections int           `yaml:"max_connections" env:"DB_MAX_CONNECTIONS" env-default:"1"`
	MaxIdleConns   int           `yaml:"max_idle_connections" env:"DB_MAX_IDLE_CONNECTIONS" env-default:"1"`
	MaxLifetime    time.Duration `yaml:"max_lifetime" env:"DB_MAX_LIFETIME" env-default:"30m"`
}

type RedisConfig struct {
	Enabled     bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	PoolSize    int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConn int           `yaml:"min_idle_conn" env:"REDIS_MIN_IDLE_CONN" env-default:"1"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout time.Duration `yaml:"read_timeout" env:"REDIS_READ_TIMEOUT" env-default:"3s"`
}

type NewRelicConfig struct {
	LicenseKey string `yaml:"license_key" env:"NEW_RELIC_LICENSE_KEY"`
	AppName    string `yaml:"app_name" env:"NEW_RELIC_APP_NAME" env-default:"ride-ledger"`
	Enabled    bool   `yaml:"enabled" env:"NEW_RELIC_ENABLED" env-default:"false"`
}

type CacheConfig struct {
	Prefix     string        `yaml:"prefix" env:"CACHE_PREFIX" env-default:"ledger:report"`
	SummaryTTL time.Duration `yaml:"summary_ttl" env:"CACHE_TTL_SUMMARY" env-default:"5m"`
}

type PricingConfig struct {
	EconomyMax           float64 `yaml:"economy_max" env:"TIER_ECONOMY_MAX" env-default:"400"`
	ComfortMax           float64 `yaml:"comfort_max" env:"TIER_COMFORT_MAX" env-default:"1000"`
	HighSpenderThreshold float64 `yaml:"high_spender_threshold" env:"HIGH_SPENDER_THRESHOLD" env-default:"1000"`
}

type ExportConfig struct {
	Dir string `yaml:"dir" env:"EXPORT_DIR" env-default:"out"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
	Output string `yaml:"output" env:"LOG_OUTPUT" env-default:"stderr"`
}

// Load reads configuration from the environment, optionally layered over a
// YAML file. path falls back to $LEDGER_CONFIG; environment values win over the file.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv(PathEnv)
	}

	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", c.Database.Driver)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when REDIS_ENABLED is set")
	}
	if c.Pricing.EconomyMax < 0 || c.Pricing.ComfortMax < c.Pricing.EconomyMax {
		return fmt.Errorf("tier bounds must satisfy 0 <= TIER_ECONOMY_MAX <= TIER_COMFORT_MAX")
	}
	if c.Pricing.HighSpenderThreshold < 0 {
		return fmt.Errorf("HIGH_SPENDER_THRESHOLD must be non-negative")
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("EXPORT_DIR is required")
	}
	return nil
}
