package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

type Config struct {
	Port    string
	Storage string

	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig

	RateLimit  int
	RateWindow time.Duration

	LogLevel  string
	LogFormat string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// RedisConfig is disabled when Host is empty.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Load reads an optional .env file, then the process environment. Variables
// already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	cfg, err := read(envFiles)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// LoadDatabase is Load for tools that only talk to Postgres. Auth settings
// are not required.
func LoadDatabase(envFiles ...string) (DBConfig, error) {
	cfg, err := read(envFiles)
	if err != nil {
		return DBConfig{}, err
	}
	if cfg.DB.User == "" || cfg.DB.Name == "" {
		return DBConfig{}, errors.New("config: DB_USER and DB_NAME are required")
	}
	return cfg.DB, nil
}

func read(envFiles []string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", f, err)
		}
	}

	var errs []error

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		Storage: strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0, &errs),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getEnv("JWT_ISSUER", "kanso-study"),
			TTL:    getEnvDuration("JWT_TTL", 24*time.Hour, &errs),
		},
		RateLimit:  getEnvInt("RATE_LIMIT", 100, &errs),
		RateWindow: getEnvDuration("RATE_WINDOW", time.Minute, &errs),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWT.TTL)
	}
	switch c.Storage {
	case StoragePostgres:
		if c.DB.User == "" || c.DB.Name == "" {
			return errors.New("DB_USER and DB_NAME are required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q (want %s or %s)", c.Storage, StoragePostgres, StorageMemory)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT cannot be negative, got %d", c.RateLimit)
	}
	return nil
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return fallback
	}
	return v
}
