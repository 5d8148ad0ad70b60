package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/exporter"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/infrastructure"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/operations"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/shared/testutil"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Paths.LogsDir = ""
	cfg.Logging.Output = "console"
	cfg.Telemetry.TraceExporter = "none"
	cfg.Telemetry.MetricsFile = filepath.Join(cfg.Paths.BaseDir, "etl.prom")
	return cfg
}

func TestApplication_ProcessMode(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cfg := testConfig(t)
	application, err := NewApplicationFromConfig(cfg)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(application.Paths.StagingDir, 0755))
	testutil.WriteSourceArchive(t, application.Paths.StagingDir, "1T2025.zip",
		`"";"123456";"X";"DESPESAS COM EVENTOS/SINISTROS";"Y";"1.234,56"`)

	state, err := application.Run(context.Background(), ModeProcess)
	require.NoError(t, err)
	assert.Equal(t, operations.OperationStatusCompleted, state.Status)
	assert.Nil(t, state.GetStep(operations.StepIDExtract))

	v, ok := state.GetContext(operations.ContextKeySummary)
	require.True(t, ok)
	assert.Equal(t, 1, v.(*domain.RunSummary).RecordsWritten)

	files, err := exporter.Unpack(application.Paths.OutputZip, t.TempDir())
	require.NoError(t, err)
	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "CNPJ;RazaoSocial;Trimestre;Ano;ValorDespesas\n123456000100;OPERADORA 123456;1T;2025;1234.56\n", string(content))

	require.NoError(t, application.Stop(context.Background()))
	metrics, err := os.ReadFile(cfg.Telemetry.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "etl_archives_total")
}

func TestApplication_PipelineSteps(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cfg := testConfig(t)
	cfg.Publish.Bucket = "ans-etl"
	application, err := NewApplicationFromConfig(cfg)
	require.NoError(t, err)

	_, err = application.Pipeline(ModeFull)
	require.NoError(t, err)

	application.Config.Source.BaseURL = "://bad"
	_, err = application.Pipeline(ModeFull)
	assert.Error(t, err)

	_, err = application.Pipeline(ModeProcess)
	assert.NoError(t, err, "process mode does not build the fetcher")
}

func TestApplication_InvalidOutputTargets(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cfg := testConfig(t)
	cfg.Paths.OutputZip = "consolidado.tar.gz"
	application, err := NewApplicationFromConfig(cfg)
	require.NoError(t, err)

	_, err = application.Run(context.Background(), ModeProcess)
	assert.Error(t, err)
}
