package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvListenAddr       = "MOCKAPI_ADDR"
	EnvJWTSecret        = "JWT_SECRET"
	EnvTokenExpiryHours = "JWT_EXPIRY_HOURS"
	EnvGoogleClientID   = "GOOGLE_CLIENT_ID"
	EnvAllowedOrigins   = "ALLOWED_ORIGINS"
)

// parseEnv overlays Config with the variables that are set. ALLOWED_ORIGINS
// is comma separated. A malformed JWT_EXPIRY_HOURS panics.
func parseEnv(cfg *Config) {
	cfg.ListenAddr = getEnv(EnvListenAddr, cfg.ListenAddr)
	cfg.SecretKey = getEnv(EnvJWTSecret, cfg.SecretKey)
	cfg.GoogleClientID = getEnv(EnvGoogleClientID, cfg.GoogleClientID)

	if v := os.Getenv(EnvTokenExpiryHours); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.TokenValidityDuration = time.Duration(hours) * time.Hour
	}

	if v := os.Getenv(EnvAllowedOrigins); v != "" {
		cfg.AllowedOrigins = splitOrigins(v)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
