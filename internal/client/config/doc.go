// Package config loads runtime configuration for the BudgetUp CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: BUDGETUP_API_URL, BUDGETUP_DB_PATH, BUDGETUP_HTTP_TIMEOUT.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   session database path (":memory:" keeps nothing on disk)
//	-t int      HTTP timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "api_url": "http://localhost:5000",
//	  "db_path": "budgetup.db",
//	  "http_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
//
// Malformed input in any source panics; the binary recovers and exits.
package config
