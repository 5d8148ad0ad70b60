package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/app"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/operations"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/validation"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	inDir := fs.String("in", "", "staging directory holding the archives (overrides config)")
	outCSV := fs.String("out", "", "consolidated CSV path (overrides config)")
	outZip := fs.String("zip", "", "packaged archive path (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	application, err := app.NewApplication(*configPath)
	if err != nil {
		slog.Error("Failed to start", "error", err)
		return 1
	}
	defer application.Stop(context.Background())

	if *inDir != "" {
		if _, err := validation.NewFileValidator(application.Logger).ValidateInputDirectory(*inDir, "*"+config.ArchiveExtension); err != nil {
			application.Logger.Error("Invalid input directory", slog.String("error", err.Error()))
			return 1
		}
		application.Paths.StagingDir = *inDir
	}
	if *outCSV != "" {
		application.Paths.OutputCSV = *outCSV
	}
	if *outZip != "" {
		application.Paths.OutputZip = *outZip
	}

	state, err := application.Run(context.Background(), app.ModeProcess)
	if err != nil {
		application.Logger.Error("Processing failed", slog.String("error", err.Error()))
		return 1
	}

	if v, ok := state.GetContext(operations.ContextKeySummary); ok {
		s := v.(*domain.RunSummary)
		fmt.Fprintf(stdout, "%d records from %d archives written to %s\n",
			s.RecordsWritten, s.ArchivesProcessed, state.GetString(operations.ContextKeyArtifact))
	}
	return 0
}
