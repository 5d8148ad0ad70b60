package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/dataprocessing"
	apperrors "github.com/guscaldeira/teste-tecnico-intuitive-care/internal/errors"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/exporter"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/files"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/infrastructure"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/validation"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

// TransformState is the state of the transformer state machine
type TransformState string

const (
	StateIdle        TransformState = "idle"
	StateDiscovering TransformState = "discovering"
	StateProcessing  TransformState = "processing"
	StateDone        TransformState = "done"
	StateFailed      TransformState = "failed"
)

// ConsolidatedOutput is the single output stream of a run
type ConsolidatedOutput interface {
	exporter.RecordWriter
	Close() error
}

// OutputOpener opens the consolidated output at path
type OutputOpener func(path string) (ConsolidatedOutput, error)

func openConsolidatedFile(path string) (ConsolidatedOutput, error) {
	return exporter.NewConsolidatedWriter(path)
}

// ArchiveStats is what one archive contributed to the run
type ArchiveStats struct {
	RowsRead       int
	RecordsWritten int
	Dropped        map[domain.DropReason]int
}

// Transformer reads every staged archive and appends qualifying records to
// the consolidated output, one archive at a time.
type Transformer struct {
	stagingDir string
	outputPath string

	discovery  *files.Discovery
	files      *files.Manager
	validator  *validation.FileValidator
	parser     *dataprocessing.RecordParser
	filter     *dataprocessing.ExpenseFilter
	openOutput OutputOpener
	telemetry  *Telemetry
	logger     *slog.Logger

	mu    sync.RWMutex
	state TransformState
}

// NewTransformer creates a transformer over paths.StagingDir writing paths.OutputCSV
func NewTransformer(paths *config.Paths, filter config.FilterConfig, telemetry *Telemetry, logger *slog.Logger) *Transformer {
	if telemetry == nil {
		telemetry = NoopTelemetry()
	}
	logger = infrastructure.WithComponent(logger, "transformer")

	return &Transformer{
		stagingDir: paths.StagingDir,
		outputPath: paths.OutputCSV,
		discovery:  files.NewDiscovery(paths.BaseDir),
		files:      files.NewManager(logger),
		validator:  validation.NewFileValidator(logger),
		parser:     dataprocessing.NewRecordParser(),
		filter:     dataprocessing.NewExpenseFilter(filter),
		openOutput: openConsolidatedFile,
		telemetry:  telemetry,
		logger:     logger,
		state:      StateIdle,
	}
}

// WithOutputOpener replaces how the consolidated output is opened
func (t *Transformer) WithOutputOpener(open OutputOpener) *Transformer {
	t.openOutput = open
	return t
}

// State returns the current state of the machine
func (t *Transformer) State() TransformState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Transformer) setState(s TransformState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// Run processes every archive in the staging directory. Archive failures are
// logged and skipped. Only failing to create the staging directory or to
// open the output aborts the run. A cancelled ctx stops the run between
// archives; records already written are kept.
func (t *Transformer) Run(ctx context.Context) (*domain.RunSummary, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	summary := domain.NewRunSummary(infrastructure.GetRunID(ctx))
	summary.OutputPath = t.outputPath

	t.setState(StateDiscovering)

	if err := t.files.EnsureDirectory(t.stagingDir); err != nil {
		return t.fail(ctx, summary, apperrors.NewFatalError("cannot create staging directory", err).
			WithContext("path", t.stagingDir))
	}

	if err := t.validator.ValidateOutputDirectory(filepath.Dir(t.outputPath)); err != nil {
		return t.fail(ctx, summary, apperrors.NewFatalError("cannot open output destination", err).
			WithContext("path", t.outputPath))
	}
	out, err := t.openOutput(t.outputPath)
	if err != nil {
		return t.fail(ctx, summary, apperrors.NewFatalError("cannot open output destination", err).
			WithContext("path", t.outputPath))
	}
	defer out.Close()

	archives, err := t.discovery.FindArchives(t.stagingDir, config.ArchiveExtension)
	if err != nil {
		return t.fail(ctx, summary, apperrors.NewFatalError("cannot list staging directory", err).
			WithContext("path", t.stagingDir))
	}
	summary.ArchivesFound = len(archives)

	t.logger.InfoContext(ctx, "Archives discovered",
		slog.String("staging_dir", t.stagingDir),
		slog.Int("count", len(archives)))

	t.setState(StateProcessing)

	var interrupted error
	for _, archive := range archives {
		if err := ctx.Err(); err != nil {
			interrupted = err
			break
		}

		if err := t.processArchive(ctx, out, archive, summary); err != nil {
			summary.ArchivesSkipped++
			t.logger.ErrorContext(ctx, "Archive skipped",
				slog.String("filename", archive.Name),
				slog.String("error_type", string(apperrors.TypeOf(err))),
				slog.String("error", err.Error()))
			continue
		}
		summary.ArchivesProcessed++
	}

	summary.RecordsWritten = out.Count()
	if err := out.Close(); err != nil {
		return t.fail(ctx, summary, apperrors.NewFatalError("failed to finish output", err).
			WithContext("path", t.outputPath))
	}

	if interrupted != nil {
		return t.fail(ctx, summary, fmt.Errorf("transform interrupted: %w", interrupted))
	}

	summary.FinishedAt = time.Now()
	t.setState(StateDone)

	t.logger.InfoContext(ctx, "Transform finished",
		slog.String("output", t.outputPath),
		slog.Int("archives_found", summary.ArchivesFound),
		slog.Int("archives_processed", summary.ArchivesProcessed),
		slog.Int("archives_skipped", summary.ArchivesSkipped),
		slog.Int("sentinel_periods", summary.SentinelPeriods),
		slog.Int("rows_read", summary.RowsRead),
		slog.Int("records_written", summary.RecordsWritten),
		slog.Int("rows_dropped", summary.TotalDropped()),
		slog.Duration("duration", summary.Duration()))

	return summary, nil
}

func (t *Transformer) fail(ctx context.Context, summary *domain.RunSummary, err error) (*domain.RunSummary, error) {
	summary.FinishedAt = time.Now()
	t.setState(StateFailed)
	t.logger.ErrorContext(ctx, "Transform failed", slog.String("error", err.Error()))
	return summary, err
}

// processArchive runs one archive through parse, filter and write. The
// output is passed in and stays open; rows written before a failure remain.
func (t *Transformer) processArchive(ctx context.Context, out exporter.RecordWriter, archive files.FileInfo, summary *domain.RunSummary) error {
	ref, ok := dataprocessing.ArchiveReferenceFor(archive.Path)
	if !ok {
		summary.SentinelPeriods++
		t.telemetry.RecordSentinel(ctx)
		t.logger.WarnContext(ctx, "Archive name carries no period, using sentinel",
			slog.String("filename", ref.Name),
			slog.String("quarter", ref.Period.Quarter),
			slog.String("year", ref.Period.Year))
	}

	ctx, span := t.telemetry.StartArchive(ctx, ref)
	defer span.End()

	stats := ArchiveStats{Dropped: make(map[domain.DropReason]int)}
	before := out.Count()

	parsed, err := t.parser.ParseArchive(ref, func(row domain.RawRow) error {
		res := t.filter.Apply(row, ref.Period)
		if !res.Qualified() {
			stats.Dropped[res.Reason]++
			return nil
		}
		return out.Write(*res.Record)
	})
	if flushErr := out.Flush(); err == nil && flushErr != nil {
		err = fmt.Errorf("failed to flush output: %w", flushErr)
	}

	stats.RowsRead = parsed.Lines
	stats.RecordsWritten = out.Count() - before
	if parsed.TooShort > 0 {
		stats.Dropped[domain.DropReasonTooShort] += parsed.TooShort
	}

	summary.RowsRead += stats.RowsRead
	for reason, n := range stats.Dropped {
		summary.Dropped[reason] += n
	}

	if err != nil {
		t.telemetry.RecordArchive(ctx, OutcomeSkipped, stats, err)
		return apperrors.NewStructuralError("archive could not be processed", err).
			WithContext("filename", ref.Name)
	}

	t.telemetry.RecordArchive(ctx, OutcomeProcessed, stats, nil)
	t.logger.DebugContext(ctx, "Archive processed",
		slog.String("filename", ref.Name),
		slog.String("entry", parsed.Entry),
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("records_written", stats.RecordsWritten))
	return nil
}
