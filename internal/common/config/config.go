package config

import (
	"fmt"
	"os"
	"time"

	"github.com/aniwatch/backend/internal/common/constants"
	commonerrors "github.com/aniwatch/backend/internal/common/errors"
)

type Config struct {
	HTTPPort           string
	DatabaseURL        string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	IsProduction       bool
	RequestTimeout     time.Duration
}

// Load resolves every recognized environment variable exactly once at startup.
// REFRESH_TOKEN_SECRET is optional and falls back to the access secret.
func Load() (Config, error) {
	accessSecret, err := mustEnv("ACCESS_TOKEN_SECRET")
	if err != nil {
		return Config{}, err
	}

	if err := validateTokenSecret(accessSecret); err != nil {
		return Config{}, err
	}

	refreshSecret := getEnv("REFRESH_TOKEN_SECRET", "")
	if refreshSecret == "" {
		refreshSecret = accessSecret
	} else if err := validateTokenSecret(refreshSecret); err != nil {
		return Config{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:           getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:        databaseURL,
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		RefreshTokenTTL:    getDurationEnv("REFRESH_TOKEN_TTL", constants.DefaultRefreshTokenTTL),
		IsProduction:       getEnv("APP_ENV", "development") == "production",
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
	}, nil
}

func validateTokenSecret(secret string) error {
	if len(secret) < constants.TokenSecretMinLength {
		return commonerrors.ErrInvalidTokenSecret.WithCause(
			fmt.Errorf("got %d bytes", len(secret)),
		)
	}
	return nil
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
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
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
