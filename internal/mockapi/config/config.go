// Package config handles configuration for the mock API, including defaults,
// environment, JSON overlay and command-line flags.
package config

import "time"

// Config holds runtime settings for the mock API.
//
// Fields:
//   - ListenAddr: bind address for the HTTP listener.
//   - SecretKey: HMAC secret for signing bearer tokens (HS256). Development only.
//   - TokenValidityDuration: lifetime of issued bearer tokens.
//   - GoogleClientID: audience for Google ID tokens. Empty selects the
//     development verifier, which accepts any non-empty token.
//   - AllowedOrigins: CORS origins for browser callers.
//   - CodeValidityDuration: lifetime of emailed verification codes.
type Config struct {
	ListenAddr            string
	SecretKey             string
	TokenValidityDuration time.Duration
	GoogleClientID        string
	AllowedOrigins        []string
	CodeValidityDuration  time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and must be overridden outside local use.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":5000"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.GoogleClientID = ""
	c.AllowedOrigins = []string{"*"}
	c.CodeValidityDuration = 10 * time.Minute
}

// LoadConfig builds a Config from defaults, then the environment, then the
// JSON file named by -c/-config, then flags. args excludes the program name.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
