package app

import (
	"os"
	"strconv"
	"time"

	"github.com/opsnorth/secchecklist/pkg/jwtx"
)

type Config struct {
	WorkbookFile string        // Path to the multi-sheet dataset (default: ./aws_security_checklist.xlsx)
	SecretFile   string        // Path to the token-signing secret file (default: ./secret)
	TokenTTL     time.Duration // Session token lifetime (default: 1h)
	Issuer       string        // Issuer claim for session tokens (default: checklist)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		WorkbookFile: getEnvOrDefault("CHECKLIST_WORKBOOK_FILE", "aws_security_checklist.xlsx"),
		SecretFile:   getEnvOrDefault("CHECKLIST_SECRET_FILE", "secret"),
		TokenTTL:     getEnvDurationOrDefault("CHECKLIST_TOKEN_TTL", jwtx.DefaultSessionTTL),
		Issuer:       getEnvOrDefault("CHECKLIST_ISSUER", "checklist"),

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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
