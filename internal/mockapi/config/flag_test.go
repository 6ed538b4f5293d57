package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		initial     *Config
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", initial: &Config{},
			args: []string{"-a", "127.0.0.1:9090", "-s", "secret", "-g", "cid", "-o", "http://x.test,http://y.test", "-e", "1"},
			expected: &Config{
				ListenAddr:            "127.0.0.1:9090",
				SecretKey:             "secret",
				GoogleClientID:        "cid",
				AllowedOrigins:        []string{"http://x.test", "http://y.test"},
				TokenValidityDuration: time.Hour,
			}},
		{name: "origins untouched without -o",
			initial:  &Config{AllowedOrigins: []string{"*"}, TokenValidityDuration: 5 * time.Hour},
			args:     []string{"-c", "cfg.json", "-a=:1"},
			expected: &Config{ListenAddr: ":1", AllowedOrigins: []string{"*"}, TokenValidityDuration: 5 * time.Hour}},
		{name: "incorrect expiry", initial: &Config{}, args: []string{"-e", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := tt.initial

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config, tt.args) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config, tt.args) })
			}
		})
	}
}
