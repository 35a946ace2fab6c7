package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/fitness-helper/internal/logger"
)

// Supported conversation state backends
const (
	StateBackendPostgres = "postgres"
	StateBackendRedis    = "redis"
	StateBackendMemory   = "memory"
)

type Config struct {
	TelegramToken  string
	MetricsAddress string
	DB             DBConfig
	Redis          RedisConfig
	State          StateConfig
	Logger         LoggerConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the libpq connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type StateConfig struct {
	Backend     string
	TTL         time.Duration
	TurnTimeout time.Duration
	MailboxSize int
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
	MaxSizeMB  int
	MaxBackups int
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// Load reads configuration from the environment and validates it
func Load() (*Config, error) {
	var errs []error

	intEnv := func(key string, def int) int {
		v, err := getIntEnv(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durationEnv := func(key string, def time.Duration) time.Duration {
		v, err := getDurationEnv(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		MetricsAddress: os.Getenv("METRICS_ADDRESS"),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "fitness_helper"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intEnv("REDIS_DB", 0),
		},
		State: StateConfig{
			Backend:     strings.ToLower(getEnvOrDefault("STATE_BACKEND", StateBackendPostgres)),
			TTL:         durationEnv("STATE_TTL", 30*24*time.Hour),
			TurnTimeout: durationEnv("TURN_TIMEOUT", 5*time.Second),
			MailboxSize: intEnv("MAILBOX_SIZE", 16),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
			MaxSizeMB:  intEnv("LOG_MAX_SIZE_MB", 50),
			MaxBackups: intEnv("LOG_MAX_BACKUPS", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var errs []error
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	switch c.State.Backend {
	case StateBackendPostgres, StateBackendRedis, StateBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STATE_BACKEND %q is not one of postgres, redis, memory", c.State.Backend))
	}
	if c.State.TurnTimeout <= 0 {
		errs = append(errs, errors.New("TURN_TIMEOUT must be positive"))
	}
	if c.State.TTL < 0 {
		errs = append(errs, errors.New("STATE_TTL must not be negative"))
	}
	if c.State.MailboxSize <= 0 {
		errs = append(errs, errors.New("MAILBOX_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

// LoggerSettings converts to the logger package config
func (c LoggerConfig) LoggerSettings() logger.Config {
	return logger.Config{
		Level:      c.Level,
		OutputPath: c.OutputPath,
		Format:     c.Format,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
	}
}

// MaskSecret hides everything but the edges of a token for printing
func MaskSecret(secret string) string {
	if secret == "" {
		return "<не установлен>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
