package config

import (
	"os"
	"time"
)

// Environment variables read by parseEnv. A .env file in the working
// directory is loaded into the environment by the binary before LoadConfig.
const (
	EnvAPIURL      = "BUDGETUP_API_URL"
	EnvDBPath      = "BUDGETUP_DB_PATH"
	EnvHTTPTimeout = "BUDGETUP_HTTP_TIMEOUT"
)

// parseEnv overlays Config with the BUDGETUP_* variables that are set.
// BUDGETUP_HTTP_TIMEOUT takes a Go duration ("5s"); a malformed value panics.
func parseEnv(cfg *Config) {
	cfg.APIURL = getEnv(EnvAPIURL, cfg.APIURL)
	cfg.DBPath = getEnv(EnvDBPath, cfg.DBPath)

	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.HTTPTimeout = d
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
