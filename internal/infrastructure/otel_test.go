package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
)

func TestInitializeOTel_WritesMetricsFile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "etl.prom")
	cfg := config.Default().Telemetry
	cfg.MetricsFile = metricsFile

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	counter, err := providers.Meter.Int64Counter("etl_test_events")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	require.NoError(t, providers.WriteMetrics())

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "etl_test_events"), string(content))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.TraceExporter = "zipkin"

	_, err := InitializeOTel(cfg, nil)
	assert.Error(t, err)
}

func TestNoopProviders(t *testing.T) {
	p := NoopProviders()
	require.NotNil(t, p.Tracer)
	require.NotNil(t, p.Meter)
	assert.NoError(t, p.WriteMetrics())
	assert.NoError(t, p.Shutdown(context.Background()))
}
