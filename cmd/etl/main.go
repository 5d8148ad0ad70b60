package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/app"
	apperrors "github.com/guscaldeira/teste-tecnico-intuitive-care/internal/errors"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/operations"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("etl", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file (defaults to config.yaml or configs/config.yaml)")
	skipDownload := fs.Bool("skip-download", false, "transform what is already staged without fetching")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	application, err := app.NewApplication(*configPath)
	if err != nil {
		slog.Error("Failed to start", "error", err)
		return 1
	}
	defer application.Stop(context.Background())

	mode := app.ModeFull
	if *skipDownload {
		mode = app.ModeProcess
	}

	state, err := application.Run(context.Background(), mode)
	if state != nil {
		printReport(stdout, state)
	}
	if err != nil {
		application.Logger.Error("Run failed",
			slog.String("error", err.Error()),
			slog.Bool("fatal", apperrors.IsFatal(err)))
		return 1
	}
	return 0
}

func printReport(w io.Writer, state *operations.OperationState) {
	fmt.Fprintf(w, "run %s: %s in %s\n", state.ID, state.Status, state.Duration().Round(1e6))
	for _, step := range state.Steps {
		line := fmt.Sprintf("  %-10s %s", step.ID, step.GetStatus())
		if step.Message != "" {
			line += " (" + step.Message + ")"
		}
		fmt.Fprintln(w, line)
	}

	if v, ok := state.GetContext(operations.ContextKeySummary); ok {
		s := v.(*domain.RunSummary)
		fmt.Fprintf(w, "archives: %d found, %d processed, %d skipped\n",
			s.ArchivesFound, s.ArchivesProcessed, s.ArchivesSkipped)
		fmt.Fprintf(w, "rows: %d read, %d written, %d dropped\n",
			s.RowsRead, s.RecordsWritten, s.TotalDropped())
	}
	if artifact := state.GetString(operations.ContextKeyArtifact); artifact != "" {
		fmt.Fprintf(w, "artifact: %s\n", artifact)
	}
	if loc := state.GetString(operations.ContextKeyPublishedAt); loc != "" {
		fmt.Fprintf(w, "published: %s\n", loc)
	}
}
