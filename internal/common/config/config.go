package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hamworks/timesheet-system/internal/common/constants"
	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
)

type Config struct {
	HTTPPort               string
	DatabaseURL            string
	RequestTimeout         time.Duration
	SessionTTLMonths       int
	SessionCleanupInterval time.Duration
	LogDir                 string
	LogLevel               string
}

func Load() (Config, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:               getEnv("TIMESHEET_HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:            databaseURL,
		RequestTimeout:         getDurationEnv("TIMESHEET_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		SessionTTLMonths:       getIntEnv("SESSION_TTL_MONTHS", constants.DefaultSessionTTLMonths),
		SessionCleanupInterval: getDurationEnv("SESSION_CLEANUP_INTERVAL", constants.DefaultSessionCleanupInterval),
		LogDir:                 getEnv("LOG_DIR", ""),
		LogLevel:               getEnv("LOG_LEVEL", "INFO"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
