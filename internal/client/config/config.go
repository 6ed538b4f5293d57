package config

import "time"

// Config holds runtime settings for the BudgetUp CLI.
//
// Fields:
//   - APIURL: base URL of the BudgetUp REST API.
//   - DBPath: SQLite file holding the persisted session, or ":memory:".
//   - HTTPTimeout: upper bound for a single API request.
//   - OnlineCheckInterval: how often the client probes API reachability.
type Config struct {
	APIURL              string
	DBPath              string
	HTTPTimeout         time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:5000"
	c.DBPath = "budgetup.db"
	c.HTTPTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones. args excludes the program
// name.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
