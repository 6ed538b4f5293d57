package config

import (
	"flag"
	"io"
	"time"

	"github.com/budgetup/budgetup/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   listen address (e.g. ":5000")
//	-s string   JWT HMAC secret key
//	-g string   Google OAuth client id
//	-o string   comma separated CORS origins
//	-e int      token validity, hours
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-g", "-o", "-e"})

	fs := flag.NewFlagSet("mockapi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to listen on")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.GoogleClientID, "g", cfg.GoogleClientID, "Google client id")
	origins := fs.String("o", "", "allowed CORS origins, comma separated")
	expiry := fs.Int("e", int(cfg.TokenValidityDuration.Hours()), "token validity (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *origins != "" {
		cfg.AllowedOrigins = splitOrigins(*origins)
	}
	cfg.TokenValidityDuration = time.Duration(*expiry) * time.Hour
}
