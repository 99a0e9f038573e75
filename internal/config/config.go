package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary    Primary          `koanf:"primary"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Webhook    WebhookConfig    `koanf:"webhook"`
	Settlement SettlementConfig `koanf:"settlement"`
	Pool       PoolConfig       `koanf:"pool"`
	Logger     LoggerConfig     `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// WebhookConfig drives the delivery subsystem. Secret signs every payload;
// it is read once here and passed into the dispatcher, never read again.
type WebhookConfig struct {
	Secret       string        `koanf:"secret" validate:"required"`
	MaxAttempts  int           `koanf:"max_attempts" validate:"required"`
	BackoffStep  time.Duration `koanf:"backoff_step" validate:"required"`
	PostTimeout  time.Duration `koanf:"post_timeout" validate:"required"`
}

// SettlementConfig controls the simulated settlement decision.
type SettlementConfig struct {
	Delay       time.Duration `koanf:"delay" validate:"required"`
	DeclineRate float64       `koanf:"decline_rate"`
}

type PoolConfig struct {
	Workers   int `koanf:"workers" validate:"required"`
	QueueSize int `koanf:"queue_size" validate:"required"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

// defaults applied before the environment is read
var defaults = map[string]interface{}{
	"webhook.max_attempts":    5,
	"webhook.backoff_step":    time.Second,
	"webhook.post_timeout":    10 * time.Second,
	"settlement.delay":        100 * time.Millisecond,
	"settlement.decline_rate": 0.6,
	"pool.workers":            10,
	"pool.queue_size":         100,
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider("FIADOPAY_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "FIADOPAY_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// NewLogger builds the process logger at the configured level.
func (c LoggerConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
