// Package config loads application configuration from environment
// variables, with defaults suitable for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// UploadConfig holds file upload settings.
type UploadConfig struct {
	Dir         string
	MaxFileSize int64
}

// Config is the top-level application configuration.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	JWTSecret        string
	JWTExpire        time.Duration
	CookieExpireDays int

	KafkaBrokers []string

	SMTP   SMTPConfig
	Upload UploadConfig
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s'", key, valueStr))
		return defaultValue
	}
	return value
}

func getOptionalEnvInt64(key string, defaultValue int64, errs *[]string) int64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s'", key, valueStr))
		return defaultValue
	}
	return value
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration, got '%s'", key, valueStr))
		return defaultValue
	}
	return value
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig reads configuration from the environment. A .env file is
// loaded first when present. All errors are collected and reported at once.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var errs []string

	cfg := &Config{
		Port:        getOptionalEnv("PORT", "8080"),
		Environment: getOptionalEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getOptionalEnv("LOG_LEVEL", "info")),

		DatabaseURL: getRequiredEnv("DATABASE_URL", &errs),
		RedisURL:    getOptionalEnv("REDIS_URL", ""),

		JWTSecret:        getRequiredEnv("JWT_SECRET", &errs),
		JWTExpire:        getOptionalEnvDuration("JWT_EXPIRE", 30*24*time.Hour, &errs),
		CookieExpireDays: getOptionalEnvInt("JWT_COOKIE_EXPIRE_DAYS", 30, &errs),

		SMTP: SMTPConfig{
			Host:      getOptionalEnv("SMTP_HOST", "localhost"),
			Port:      getOptionalEnvInt("SMTP_PORT", 25, &errs),
			Username:  getOptionalEnv("SMTP_USERNAME", ""),
			Password:  getOptionalEnv("SMTP_PASSWORD", ""),
			FromName:  getOptionalEnv("FROM_NAME", "DevTrail"),
			FromEmail: getOptionalEnv("FROM_EMAIL", "noreply@devtrail.io"),
		},
		Upload: UploadConfig{
			Dir:         getOptionalEnv("FILE_UPLOAD_PATH", "./public/uploads"),
			MaxFileSize: getOptionalEnvInt64("MAX_FILE_UPLOAD", 1_000_000, &errs),
		},
	}

	if brokers := getOptionalEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}
	return cfg, nil
}
