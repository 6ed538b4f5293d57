package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/budgetup/budgetup/internal/buildinfo"
	"github.com/budgetup/budgetup/internal/client/cli"
	"github.com/budgetup/budgetup/internal/client/config"
	"github.com/budgetup/budgetup/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	buildinfo.PrintBuildData(os.Stdout)

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	// config loaders panic on malformed input
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", r)
			code = 1
		}
	}()
	cfg := config.LoadConfig(os.Args[1:])

	level := slog.LevelWarn
	if os.Getenv("BUDGETUP_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := logging.NewText(os.Stderr, level)

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer app.Close()

	app.Run(ctx)
	return 0
}
