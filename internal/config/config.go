package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceName string `yaml:"service_name"`
	Env         string `yaml:"env"`
	LogLevel    string `yaml:"log_level"`

	HTTPAddr       string        `yaml:"http_addr"`
	TransformDelay time.Duration `yaml:"transform_delay"`
	RunMigrations  bool          `yaml:"run_migrations"`

	Storage Storage `yaml:"storage"`
	AMQP    AMQP    `yaml:"amqp"`
}

type Storage struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// AMQP publishing is disabled when URL is empty.
type AMQP struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

func Default() Config {
	return Config{
		ServiceName:    "inventory-server",
		Env:            "dev",
		LogLevel:       "info",
		HTTPAddr:       ":5000",
		TransformDelay: 10 * time.Second,
		RunMigrations:  true,
		Storage: Storage{
			Driver: "sqlite",
			DSN:    "inventory.db",
		},
		AMQP: AMQP{
			Exchange: "scene.events",
		},
	}
}

// Load starts from Default, applies the YAML file at path (if path is non-empty) and
// then environment variables. Command-line flags are applied by the caller afterwards.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ServiceName = getenv("SERVICE_NAME", cfg.ServiceName)
	cfg.Env = getenv("ENV", cfg.Env)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	delay, err := parseDuration("TRANSFORM_DELAY", cfg.TransformDelay)
	if err != nil {
		return Config{}, err
	}
	cfg.TransformDelay = delay
	cfg.RunMigrations = envBool("RUN_MIGRATIONS", cfg.RunMigrations)
	cfg.Storage.Driver = getenv("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.DSN = getenv("DATABASE_DSN", cfg.Storage.DSN)
	cfg.AMQP.URL = getenv("AMQP_URL", cfg.AMQP.URL)
	cfg.AMQP.Exchange = getenv("AMQP_EXCHANGE", cfg.AMQP.Exchange)

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("storage dsn is required")
	}
	if c.TransformDelay < 0 {
		return fmt.Errorf("transform_delay must not be negative")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
