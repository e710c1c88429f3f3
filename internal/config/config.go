package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DirectoryMode selects which staff directory backs the console.
type DirectoryMode string

const (
	DirectoryModeRemote DirectoryMode = "remote"
	DirectoryModeLocal  DirectoryMode = "local"
)

// Config aggregates runtime configuration for both services.
type Config struct {
	App       AppConfig
	Cookie    CookieConfig
	Auth      AuthConfig
	Directory DirectoryConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// CookieConfig describes the session cookie slot.
type CookieConfig struct {
	Name       string
	MaxAgeDays int
}

// AuthConfig defines token parameters.
type AuthConfig struct {
	JWTSecret            string
	TokenTTLHours        int
	EnforceExpiryOnRoute bool
	BcryptCost           int
}

// DirectoryConfig selects and tunes the staff directory backing the console.
type DirectoryConfig struct {
	Mode            DirectoryMode
	BaseURL         string
	FallbackToLocal bool
	LocalLatencyMs  int
	RequestTimeout  int
}

// PostgresConfig holds DB connection values for the directory service.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	mode := DirectoryMode(getEnv("DIRECTORY_MODE", string(DirectoryModeRemote)))
	if mode != DirectoryModeRemote && mode != DirectoryModeLocal {
		return nil, fmt.Errorf("invalid DIRECTORY_MODE: %q", mode)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "admin-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Cookie: CookieConfig{
			Name:       getEnv("SESSION_COOKIE_NAME", "adminToken"),
			MaxAgeDays: getEnvAsInt("SESSION_COOKIE_MAX_AGE_DAYS", 7),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("AUTH_JWT_SECRET", "dev-secret"),
			TokenTTLHours:        getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 24*7),
			EnforceExpiryOnRoute: getEnvAsBool("AUTH_ENFORCE_EXPIRY_ON_DECODE", false),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Directory: DirectoryConfig{
			Mode:            mode,
			BaseURL:         getEnv("DIRECTORY_BASE_URL", "http://localhost:8000"),
			FallbackToLocal: getEnvAsBool("DIRECTORY_FALLBACK_TO_LOCAL", false),
			LocalLatencyMs:  getEnvAsInt("DIRECTORY_LOCAL_LATENCY_MS", 50),
			RequestTimeout:  getEnvAsInt("DIRECTORY_REQUEST_TIMEOUT_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IsProduction reports whether the app runs with production hardening (secure cookies).
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// MaxAge returns the cookie lifetime.
func (c CookieConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}

// TokenTTL returns the credential lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// LocalLatency returns the simulated latency of the local fallback directory.
func (d DirectoryConfig) LocalLatency() time.Duration {
	return time.Duration(d.LocalLatencyMs) * time.Millisecond
}

// Timeout returns the outbound request timeout for the remote directory.
func (d DirectoryConfig) Timeout() time.Duration {
	if d.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.RequestTimeout) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
