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

type Config struct {
	Addr                     string
	DatabaseURL              string
	JWTSecret                string
	Environment              string
	Timezone                 string
	LogLevel                 string
	RunMigrations            bool
	RunSeed                  bool
	SeedAdminUsername        string
	SeedAdminPassword        string
	DefaultEmployeePassword  string
	ReportWindowDays         int
	ExcellentRatingThreshold float64
	TokenTTL                 time.Duration
	PortalSessionTTL         time.Duration
	CookieSecure             bool
	MaxBodyBytes             int64
	RateLimitPerMinute       int
	MetricsEnabled           bool
	EmailEnabled             bool
	EmailFrom                string
	SMTPHost                 string
	SMTPPort                 int
	SMTPUser                 string
	SMTPPassword             string
	SMTPUseTLS               bool
}

func Load() Config {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("dotenv load failed", "err", err)
	}

	return Config{
		Addr:                     getEnv("APP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		Environment:              getEnv("APP_ENV", "development"),
		Timezone:                 getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		RunMigrations:            getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:                  getEnvBool("RUN_SEED", true),
		SeedAdminUsername:        getEnv("SEED_ADMIN_USERNAME", ""),
		SeedAdminPassword:        getEnv("SEED_ADMIN_PASSWORD", ""),
		DefaultEmployeePassword:  getEnv("DEFAULT_EMPLOYEE_PASSWORD", "employee123"),
		ReportWindowDays:         getEnvInt("REPORT_WINDOW_DAYS", 30),
		ExcellentRatingThreshold: getEnvFloat("EXCELLENT_RATING_THRESHOLD", 4.5),
		TokenTTL:                 getEnvDuration("TOKEN_TTL", 8*time.Hour),
		PortalSessionTTL:         getEnvDuration("PORTAL_SESSION_TTL", 8*time.Hour),
		CookieSecure:             getEnvBool("COOKIE_SECURE", false),
		MaxBodyBytes:             int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:       getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:           getEnvBool("METRICS_ENABLED", true),
		EmailEnabled:             getEnvBool("EMAIL_ENABLED", false),
		EmailFrom:                getEnv("EMAIL_FROM", "no-reply@example.com"),
		SMTPHost:                 getEnv("SMTP_HOST", ""),
		SMTPPort:                 getEnvInt("SMTP_PORT", 587),
		SMTPUser:                 getEnv("SMTP_USER", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:               getEnvBool("SMTP_USE_TLS", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Location resolves APP_TIMEZONE, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.DefaultEmployeePassword == "employee123" {
			return fmt.Errorf("DEFAULT_EMPLOYEE_PASSWORD must be changed in production")
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	if c.ReportWindowDays <= 0 || c.ReportWindowDays > 3650 {
		return fmt.Errorf("REPORT_WINDOW_DAYS must be between 1 and 3650")
	}
	if c.ExcellentRatingThreshold < 0 || c.ExcellentRatingThreshold > 5 {
		return fmt.Errorf("EXCELLENT_RATING_THRESHOLD must be between 0 and 5")
	}
	if c.TokenTTL <= 0 || c.PortalSessionTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL and PORTAL_SESSION_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled {
		if strings.TrimSpace(c.SMTPHost) == "" {
			return fmt.Errorf("SMTP_HOST is required when EMAIL_ENABLED is true")
		}
		if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
			return fmt.Errorf("SMTP_PORT must be a valid port")
		}
		if strings.TrimSpace(c.EmailFrom) == "" {
			return fmt.Errorf("EMAIL_FROM is required when EMAIL_ENABLED is true")
		}
	}
	if c.RunSeed && c.SeedAdminUsername != "" && strings.TrimSpace(c.SeedAdminPassword) == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD is required when SEED_ADMIN_USERNAME is set")
	}
	return nil
}
