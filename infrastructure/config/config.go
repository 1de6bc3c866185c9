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

type Config struct {
	ServerHost  string
	ServerPort  string
	Environment string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// SessionStoreBackend selects "memory" or "postgres".
	SessionStoreBackend string
	DatabaseURL         string

	// RevokeFamilyOnReuse force-revokes the whole rotation lineage when a
	// rotated or revoked refresh token is presented again. Off by default:
	// the minimum contract only rejects the stale token.
	RevokeFamilyOnReuse bool
	// RevokeSessionsOnPasswordChange revokes every session of a user after a
	// successful password change. The access token that authorized the change
	// keeps working until it expires either way.
	RevokeSessionsOnPasswordChange bool

	RedisURL               string
	RateLimitEnabled       bool
	RateLimitIPAttempts    int
	RateLimitIPWindow      time.Duration
	RateLimitBlockDuration time.Duration

	LogLevel  string
	LogFormat string

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required when SESSION_STORE=postgres")
	ErrInvalidTokenTTL    = errors.New("invalid token TTL format")
	ErrRefreshTTLTooShort = errors.New("refresh token TTL must exceed access token TTL")
	ErrInvalidStoreKind   = errors.New("SESSION_STORE must be memory or postgres")
	ErrInvalidConfigValue = errors.New("invalid config value")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerHost:  getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		Environment: getEnvOrDefault("ENV", "development"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SessionStoreBackend: getEnvOrDefault("SESSION_STORE", "memory"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),

		RedisURL: getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		CORSAllowedOrigins: parseAllowedOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),
	}

	// a typo in a policy flag must not silently fall back to a default
	var err error
	if cfg.RevokeFamilyOnReuse, err = getEnvBool("SESSION_REVOKE_FAMILY_ON_REUSE", false); err != nil {
		return nil, err
	}
	if cfg.RevokeSessionsOnPasswordChange, err = getEnvBool("REVOKE_SESSIONS_ON_PASSWORD_CHANGE", false); err != nil {
		return nil, err
	}
	if cfg.RateLimitEnabled, err = getEnvBool("RATE_LIMIT_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.CORSEnabled, err = getEnvBool("CORS_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.CORSAllowCredentials, err = getEnvBool("CORS_ALLOW_CREDENTIALS", true); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	switch cfg.SessionStoreBackend {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, ErrMissingDatabaseURL
		}
	default:
		return nil, ErrInvalidStoreKind
	}

	accessTokenTTL, err := parseTokenTTL(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "900"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.AccessTokenTTL = accessTokenTTL

	refreshTokenTTL, err := parseTokenTTL(getEnvOrDefault("JWT_REFRESH_TOKEN_TTL", "2592000"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RefreshTokenTTL = refreshTokenTTL

	// Refresh tokens outlive the access tokens they mint.
	if cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return nil, ErrRefreshTTLTooShort
	}

	if cfg.RateLimitIPAttempts, err = getEnvInt("RATE_LIMIT_IP_ATTEMPTS", 5); err != nil {
		return nil, err
	}

	ipWindow, err := parseTokenTTL(getEnvOrDefault("RATE_LIMIT_IP_WINDOW", "900"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitIPWindow = ipWindow

	blockDuration, err := parseTokenTTL(getEnvOrDefault("RATE_LIMIT_BLOCK_DURATION", "1800"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitBlockDuration = blockDuration

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidConfigValue, key, value)
	}
	return parsed, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidConfigValue, key, value)
	}
	return parsed, nil
}

// parseTokenTTL interprets the value as a number of seconds.
func parseTokenTTL(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
