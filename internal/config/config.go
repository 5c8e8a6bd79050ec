package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-analytics/internal/pkg/clock"
	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Stats    StatsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	UTCOffset   time.Duration // Fixed business timezone, east of UTC
	CORSOrigins []string
}

// StatsConfig bounds report assembly
type StatsConfig struct {
	QueryConcurrency int
	QueryTimeout     time.Duration
}

// Load reads .env from the working directory, if present, then the process environment
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom builds the configuration from the given env files. Process environment
// variables take precedence over file values, and missing files are skipped.
func LoadFrom(files ...string) (*Config, error) {
	fileEnv := map[string]string{}
	for _, f := range files {
		values, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("error loading %s file: %w", f, err)
		}
		for k, v := range values {
			fileEnv[k] = v
		}
	}
	env := envReader{file: fileEnv}

	config := &Config{}

	// Database configuration
	dbPort, err := env.int("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := env.int("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := env.int("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     env.get("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     env.get("DB_USER", "postgres"),
		Password: env.get("DB_PASSWORD", ""),
		Name:     env.get("DB_NAME", "cmlabs-hris"),
		SSLMode:  env.get("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := env.int("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	offset, err := clock.ParseOffset(env.get("APP_UTC_OFFSET", "+07:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_UTC_OFFSET: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         env.get("APP_ENV", "development"),
		LogLevel:    env.get("LOG_LEVEL", "info"),
		UTCOffset:   offset,
		CORSOrigins: env.slice("APP_CORS_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           env.get("JWT_SECRET_KEY", ""),
		AccessExpiration: env.get("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Stats configuration
	concurrency, err := env.int("STATS_QUERY_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(env.get("STATS_QUERY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_QUERY_TIMEOUT: %w", err)
	}

	config.Stats = StatsConfig{
		QueryConcurrency: concurrency,
		QueryTimeout:     timeout,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.App.UTCOffset < -12*time.Hour || c.App.UTCOffset > 14*time.Hour {
		return fmt.Errorf("APP_UTC_OFFSET out of range: %s", c.App.UTCOffset)
	}
	if c.Stats.QueryConcurrency <= 0 {
		return fmt.Errorf("STATS_QUERY_CONCURRENCY must be positive")
	}
	if c.Stats.QueryTimeout < 0 {
		return fmt.Errorf("STATS_QUERY_TIMEOUT must not be negative")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// envReader resolves keys from the process environment first, then env file values
type envReader struct {
	file map[string]string
}

func (e envReader) get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := e.file[key]; value != "" {
		return value
	}
	return fallback
}

func (e envReader) int(key string, fallback int) (int, error) {
	raw := e.get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func (e envReader) slice(key string, fallback []string) []string {
	value := e.get(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
