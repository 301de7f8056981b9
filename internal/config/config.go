package config

import (
	"fmt"
	"os"
	"time"

	"todo_webapp/internal/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppPort         string        `yaml:"app_port" env:"APP_PORT" env-default:"8080"`
	AppVersion      string        `yaml:"app_version" env:"APP_VERSION" env-default:"dev"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	AllowedOrigin   string        `yaml:"allowed_origin" env:"ALLOWED_ORIGIN"`

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver         string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	URL            string `yaml:"url" env:"DATABASE_URL"`
	SQLitePath     string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"todos.sqlite"`
	MaxConns       int32  `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	MinConns       int32  `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"1"`
	MigrateOnStart bool   `yaml:"migrate_on_start" env:"MIGRATE_ON_START" env-default:"true"`
}

// RedisConfig - если Addr пустой, события раздаются только локальным ws клиентам
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	Channel  string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"todos:events"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Загрузка конфига из env
func Load() *Config {
	cfg, err := load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	return cfg
}

// load reads .env (if any), then CONFIG_PATH yaml (if any), then the environment.
// Env values win over yaml, tag defaults fill the rest.
func load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is not set")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT is empty")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	return nil
}
