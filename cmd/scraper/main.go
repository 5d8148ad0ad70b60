package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/app"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/infrastructure"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("scraper", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	years := fs.String("years", "", "comma-separated years to scan, newest first (overrides config)")
	maxDownloads := fs.Int("max", -1, "maximum new downloads, 0 for no limit (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	application, err := app.NewApplication(*configPath)
	if err != nil {
		slog.Error("Failed to start", "error", err)
		return 1
	}
	defer application.Stop(context.Background())

	if *years != "" {
		application.Config.Source.Years = strings.Split(*years, ",")
	}
	if *maxDownloads >= 0 {
		application.Config.Source.MaxDownloads = *maxDownloads
	}

	fetcher, err := application.Fetcher()
	if err != nil {
		application.Logger.Error("Invalid source configuration", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureRunID(ctx)

	result, err := fetcher.Fetch(ctx)
	if err != nil {
		application.Logger.ErrorContext(ctx, "Fetch failed", slog.String("error", err.Error()))
		return 1
	}

	fmt.Fprintf(stdout, "downloaded %d, cached %d, failed %d\n",
		len(result.Downloaded), len(result.Cached), len(result.Failed))
	for _, f := range result.FailedYears {
		fmt.Fprintf(stdout, "year %s unavailable: %v\n", f.Year, f.Err)
	}
	return 0
}
