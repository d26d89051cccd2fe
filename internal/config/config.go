package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName         = "DigitalWallet"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultAuditLogFile    = "logs/wallet_system.log"
	defaultAuditLogLevel   = "info"
	defaultAuditMaxSizeMB  = 10
	defaultAuditMaxBackups = 7
	defaultAuditMaxAgeDays = 1
	defaultAuditStream     = "ledger:audit"
	defaultAuditStreamLen  = 10_000
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	Audit          AuditConfig
}

// AuditConfig controls where ledger audit events are written.
type AuditConfig struct {
	File         string
	Level        string
	MaxSizeMB    int
	MaxBackups   int
	MaxAgeDays   int
	Stream       string
	StreamMaxLen int64
}

// Load reads configuration values from the environment and populates a Config
// instance. Variables in a .env file in the working directory are applied
// first without overriding the real environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
		Audit: AuditConfig{
			File:         lookupEnv("AUDIT_LOG_FILE", defaultAuditLogFile),
			Level:        strings.ToLower(getEnv("AUDIT_LOG_LEVEL", defaultAuditLogLevel)),
			Stream:       getEnv("AUDIT_STREAM", defaultAuditStream),
			StreamMaxLen: defaultAuditStreamLen,
		},
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.Audit.MaxSizeMB, err = intEnv("AUDIT_LOG_MAX_SIZE_MB", defaultAuditMaxSizeMB); err != nil {
		return Config{}, err
	}
	if cfg.Audit.MaxBackups, err = intEnv("AUDIT_LOG_MAX_BACKUPS", defaultAuditMaxBackups); err != nil {
		return Config{}, err
	}
	if cfg.Audit.MaxAgeDays, err = intEnv("AUDIT_LOG_MAX_AGE_DAYS", defaultAuditMaxAgeDays); err != nil {
		return Config{}, err
	}
	maxLen, err := intEnv("AUDIT_STREAM_MAX_LEN", defaultAuditStreamLen)
	if err != nil {
		return Config{}, err
	}
	cfg.Audit.StreamMaxLen = int64(maxLen)

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// lookupEnv is like getEnv but honours an explicitly empty value.
func lookupEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

// durationEnv prefers a whole number of seconds in secondsKey, then a Go
// duration string in durationKey.
func durationEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}
