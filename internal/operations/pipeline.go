package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/exporter"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/infrastructure"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/scraper"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

// Step IDs
const (
	StepIDExtract   = "extract"
	StepIDTransform = "transform"
	StepIDPackage   = "package"
	StepIDPublish   = "publish"
)

// Step represents a single Step in the pipeline
type Step interface {
	// ID returns the unique identifier for this Step
	ID() string

	// Name returns the human-readable name for this Step
	Name() string

	// Required reports whether a failure of this Step aborts the pipeline
	Required() bool

	// Execute runs the Step with the given context and operation state
	Execute(ctx context.Context, state *OperationState) error
}

// Extractor fills the staging directory
type Extractor interface {
	Fetch(ctx context.Context) (*scraper.Result, error)
}

// Runner produces the consolidated output
type Runner interface {
	Run(ctx context.Context) (*domain.RunSummary, error)
}

// Publisher uploads the packaged artifact
type Publisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

// Pipeline runs its steps in order
type Pipeline struct {
	steps     []Step
	telemetry *Telemetry
	logger    *slog.Logger
}

// NewPipeline creates a pipeline over steps
func NewPipeline(telemetry *Telemetry, logger *slog.Logger, steps ...Step) *Pipeline {
	if telemetry == nil {
		telemetry = NoopTelemetry()
	}
	return &Pipeline{
		steps:     steps,
		telemetry: telemetry,
		logger:    infrastructure.WithComponent(logger, "pipeline"),
	}
}

// Run executes every step. A failing optional step is recorded and the
// pipeline moves on; a failing required step stops it.
func (p *Pipeline) Run(ctx context.Context) (*OperationState, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	state := NewOperationState(infrastructure.GetRunID(ctx))
	for _, step := range p.steps {
		state.AddStep(NewStepState(step.ID(), step.Name()))
	}

	state.Start()
	p.logger.InfoContext(ctx, "Pipeline started", slog.Int("steps", len(p.steps)))

	for i, step := range p.steps {
		stepState := state.GetStep(step.ID())

		if err := ctx.Err(); err != nil {
			opErr := NewCancellationError(step.ID(), err)
			stepState.Fail(opErr)
			p.skipRemaining(state, i+1, "run cancelled")
			state.Fail(opErr)
			return state, opErr
		}

		stepState.Start()
		stepCtx, span := p.telemetry.StartStep(ctx, state.ID, step.ID())
		start := time.Now()

		err := step.Execute(stepCtx, state)
		p.telemetry.EndStep(stepCtx, span, step.ID(), time.Since(start).Seconds(), err)

		if err == nil {
			stepState.Complete("")
			p.logger.InfoContext(ctx, "Step completed",
				slog.String("step", step.ID()),
				slog.Duration("duration", stepState.Duration()))
			continue
		}

		stepState.Fail(err)
		if step.Required() {
			opErr := NewFatalError(step.ID(), "required step failed", err)
			p.skipRemaining(state, i+1, "required step "+step.ID()+" failed")
			state.Fail(opErr)
			p.logger.ErrorContext(ctx, "Pipeline aborted",
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return state, opErr
		}

		p.logger.WarnContext(ctx, "Optional step failed, continuing",
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
	}

	state.Complete()
	p.logger.InfoContext(ctx, "Pipeline finished",
		slog.Duration("duration", state.Duration()),
		slog.Bool("has_failures", state.HasFailures()))
	return state, nil
}

func (p *Pipeline) skipRemaining(state *OperationState, from int, reason string) {
	for _, step := range p.steps[from:] {
		state.GetStep(step.ID()).Skip(reason)
	}
}

// ExtractStep downloads archives into staging. Its failure is not fatal:
// whatever is already staged is still transformed.
type ExtractStep struct {
	extractor Extractor
}

// NewExtractStep creates the extract step
func NewExtractStep(extractor Extractor) *ExtractStep {
	return &ExtractStep{extractor: extractor}
}

func (s *ExtractStep) ID() string     { return StepIDExtract }
func (s *ExtractStep) Name() string   { return "Extract archives" }
func (s *ExtractStep) Required() bool { return false }

// Execute implements Step
func (s *ExtractStep) Execute(ctx context.Context, state *OperationState) error {
	result, err := s.extractor.Fetch(ctx)
	if result != nil {
		state.SetContext(ContextKeyFetch, result)
	}
	return err
}

// TransformStep builds the consolidated CSV
type TransformStep struct {
	runner Runner
}

// NewTransformStep creates the transform step
func NewTransformStep(runner Runner) *TransformStep {
	return &TransformStep{runner: runner}
}

func (s *TransformStep) ID() string     { return StepIDTransform }
func (s *TransformStep) Name() string   { return "Transform archives" }
func (s *TransformStep) Required() bool { return true }

// Execute implements Step
func (s *TransformStep) Execute(ctx context.Context, state *OperationState) error {
	summary, err := s.runner.Run(ctx)
	if summary != nil {
		state.SetContext(ContextKeySummary, summary)
	}
	return err
}

// PackageStep compresses the consolidated CSV
type PackageStep struct {
	packager exporter.Packager
	src, dst string
}

// NewPackageStep creates the package step
func NewPackageStep(packager exporter.Packager, src, dst string) *PackageStep {
	return &PackageStep{packager: packager, src: src, dst: dst}
}

func (s *PackageStep) ID() string     { return StepIDPackage }
func (s *PackageStep) Name() string   { return "Package output" }
func (s *PackageStep) Required() bool { return true }

// Execute implements Step
func (s *PackageStep) Execute(_ context.Context, state *OperationState) error {
	if err := s.packager.Package(s.src, s.dst); err != nil {
		return fmt.Errorf("failed to package %s: %w", s.src, err)
	}
	state.SetContext(ContextKeyArtifact, s.dst)
	return nil
}

// PublishStep uploads the packaged artifact
type PublishStep struct {
	publisher Publisher
}

// NewPublishStep creates the publish step
func NewPublishStep(publisher Publisher) *PublishStep {
	return &PublishStep{publisher: publisher}
}

func (s *PublishStep) ID() string     { return StepIDPublish }
func (s *PublishStep) Name() string   { return "Publish artifact" }
func (s *PublishStep) Required() bool { return false }

// Execute implements Step
func (s *PublishStep) Execute(ctx context.Context, state *OperationState) error {
	artifact := state.GetString(ContextKeyArtifact)
	if artifact == "" {
		return fmt.Errorf("no artifact to publish")
	}
	location, err := s.publisher.Publish(ctx, artifact)
	if err != nil {
		return err
	}
	state.SetContext(ContextKeyPublishedAt, location)
	return nil
}
