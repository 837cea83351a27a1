package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	CoreAPIURL string // Required: base URL of the Home Easy core API

	Issuer         string        // Optional: issuer claim for session cookies (default: homeeasy-portal)
	SessionTTL     time.Duration // Optional: session lifetime (default: 168h)
	SigningKeyPath string        // Optional: PKCS8 Ed25519 PEM for cookie signing (default: ephemeral key)
	SealKeyPath    string        // Optional: key file for sealing tokens at rest (default: PORTAL_SEAL_KEY env or ephemeral)
	DatabaseFile   string        // Optional: path to SQLite database file; empty = in-memory store
	SecureCookies  bool          // Optional: set the cookie Secure flag (default: true)

	PollInterval  time.Duration // Optional: unread-count poll interval (default: 30s)
	SweepInterval time.Duration // Optional: expired-session sweep interval (default: 5m)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	return Config{
		CoreAPIURL:          getEnvOrDefault("PORTAL_CORE_API_URL", "http://localhost:8000"),
		Issuer:              getEnvOrDefault("PORTAL_ISSUER", "homeeasy-portal"),
		SessionTTL:          getEnvDurationOrDefault("PORTAL_SESSION_TTL", 7*24*time.Hour),
		SigningKeyPath:      os.Getenv("PORTAL_SIGNING_KEY_PATH"),
		SealKeyPath:         os.Getenv("PORTAL_SEAL_KEY_PATH"),
		DatabaseFile:        os.Getenv("PORTAL_DATABASE_FILE"),
		SecureCookies:       getEnvBoolOrDefault("PORTAL_SECURE_COOKIES", true),
		PollInterval:        getEnvDurationOrDefault("PORTAL_POLL_INTERVAL", 30*time.Second),
		SweepInterval:       getEnvDurationOrDefault("PORTAL_SWEEP_INTERVAL", 5*time.Minute),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are taken as seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
