package config

import (
	"encoding/json"
	"os"

	"github.com/budgetup/budgetup/internal/flagx"
	"github.com/budgetup/budgetup/internal/timex"
)

// JsonConfig is the on-disk shape of the mock API config file.
type JsonConfig struct {
	ListenAddr            string          `json:"listen_addr"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	GoogleClientID        string          `json:"google_client_id"`
	AllowedOrigins        []string        `json:"allowed_origins"`
	CodeValidityDuration  *timex.Duration `json:"code_validity_duration"`
}

// parseJson overlays Config with the file named by -c or -config, if any.
// Absent keys keep their current value. Read and unmarshal errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ListenAddr != "" {
		cfg.ListenAddr = jc.ListenAddr
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenValidityDuration != nil {
		cfg.TokenValidityDuration = jc.TokenValidityDuration.Duration
	}
	if jc.GoogleClientID != "" {
		cfg.GoogleClientID = jc.GoogleClientID
	}
	if len(jc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = jc.AllowedOrigins
	}
	if jc.CodeValidityDuration != nil {
		cfg.CodeValidityDuration = jc.CodeValidityDuration.Duration
	}
}
