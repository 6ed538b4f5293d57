package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/budgetup/budgetup/internal/buildinfo"
	"github.com/budgetup/budgetup/internal/logging"
	"github.com/budgetup/budgetup/internal/mockapi"
	"github.com/budgetup/budgetup/internal/mockapi/config"
	"github.com/joho/godotenv"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.LoadConfig(os.Args[1:])
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	if err := mockapi.NewApp(cfg, logger).Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
