package operations

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
	apperrors "github.com/guscaldeira/teste-tecnico-intuitive-care/internal/errors"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/shared/testutil"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

const outputHeader = "CNPJ;RazaoSocial;Trimestre;Ano;ValorDespesas\n"

type transformFixture struct {
	paths   *config.Paths
	handler *testutil.BufferedSlogHandler
	tr      *Transformer
}

func newTransformFixture(t *testing.T) *transformFixture {
	t.Helper()

	base := t.TempDir()
	paths, err := config.ResolvePaths(config.PathsConfig{
		BaseDir:    base,
		StagingDir: "downloads",
		OutputCSV:  "out/consolidado.csv",
		OutputZip:  "out/consolidado_despesas.zip",
	})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(paths.StagingDir, 0755))

	logger, handler := testutil.NewTestLogger(t)
	return &transformFixture{
		paths:   paths,
		handler: handler,
		tr:      NewTransformer(paths, config.Default().Filter, nil, logger),
	}
}

func (f *transformFixture) archive(t *testing.T, name string, lines ...string) {
	t.Helper()
	testutil.WriteSourceArchive(t, f.paths.StagingDir, name, lines...)
}

func (f *transformFixture) output(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(f.paths.OutputCSV)
	require.NoError(t, err)
	return string(b)
}

func TestTransformer_EndToEndExamples(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "events and claims row",
			line: `"";"123456";"X";"DESPESAS COM EVENTOS/SINISTROS";"Y";"1.234,56"`,
			want: outputHeader + "123456000100;OPERADORA 123456;1T;2025;1234.56\n",
		},
		{
			name: "no keyword",
			line: `"";"123456";"X";"OUTRAS DESPESAS";"Y";"1.234,56"`,
			want: outputHeader,
		},
		{
			name: "negative amount",
			line: `"";"123456";"X";"DESPESAS COM EVENTOS/SINISTROS";"Y";"-500,00"`,
			want: outputHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransformFixture(t)
			f.archive(t, "1T2025.zip", tt.line)

			summary, err := f.tr.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.want, f.output(t))
			assert.Equal(t, StateDone, f.tr.State())
			assert.Equal(t, 1, summary.ArchivesProcessed)
			assert.Equal(t, 1, summary.RowsRead)
		})
	}
}

func TestTransformer_MultipleArchivesInNameOrder(t *testing.T) {
	f := newTransformFixture(t)
	f.archive(t, "2T2025.zip", `d;2;c;EVENTOS;x;2,00`)
	f.archive(t, "1T2025.zip",
		`d;1;c;EVENTOS;x;1,00`,
		`d;1;c;OUTRAS;x;1,00`,
		`short;row`,
		`d;1;c;SINISTROS;x;abc`,
		`d;1;c;SINISTROS;x;0,00`,
	)
	f.archive(t, "4T2024.zip", `d;3;c;SINISTROS;x;3.000,10`)

	summary, err := f.tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, outputHeader+
		"1000100;OPERADORA 1;1T;2025;1.00\n"+
		"2000100;OPERADORA 2;2T;2025;2.00\n"+
		"3000100;OPERADORA 3;4T;2024;3000.10\n", f.output(t))

	assert.Equal(t, 3, summary.ArchivesFound)
	assert.Equal(t, 3, summary.ArchivesProcessed)
	assert.Equal(t, 0, summary.ArchivesSkipped)
	assert.Equal(t, 7, summary.RowsRead)
	assert.Equal(t, 3, summary.RecordsWritten)
	assert.Equal(t, map[domain.DropReason]int{
		domain.DropReasonCategoryMismatch:  1,
		domain.DropReasonTooShort:          1,
		domain.DropReasonInvalidAmount:     1,
		domain.DropReasonNonPositiveAmount: 1,
	}, summary.Dropped)
	assert.NotEmpty(t, summary.RunID)
	assert.False(t, summary.FinishedAt.IsZero())

	// drops are counted, never logged one by one
	assert.False(t, f.handler.ContainsMessage("dropped"))
	testutil.AssertNoErrors(t, f.handler)
}

func TestTransformer_EmptyStagingWritesHeaderOnly(t *testing.T) {
	f := newTransformFixture(t)

	summary, err := f.tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, outputHeader, f.output(t))
	assert.Equal(t, 0, summary.ArchivesFound)
}

func TestTransformer_CreatesMissingStaging(t *testing.T) {
	f := newTransformFixture(t)
	require.NoError(t, os.RemoveAll(f.paths.StagingDir))

	_, err := f.tr.Run(context.Background())
	require.NoError(t, err)
	assert.DirExists(t, f.paths.StagingDir)
}

func TestTransformer_SkipsBrokenArchives(t *testing.T) {
	f := newTransformFixture(t)
	f.archive(t, "1T2025.zip", `d;1;c;EVENTOS;x;1,00`)
	require.NoError(t, os.WriteFile(filepath.Join(f.paths.StagingDir, "2T2025.zip"), []byte("garbage"), 0644))
	testutil.WriteArchive(t, f.paths.StagingDir, "3T2025.zip",
		testutil.ZipEntry{Name: "readme.txt", Content: []byte("no csv")})
	f.archive(t, "4T2025.zip", `d;4;c;EVENTOS;x;4,00`)

	summary, err := f.tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, outputHeader+
		"1000100;OPERADORA 1;1T;2025;1.00\n"+
		"4000100;OPERADORA 4;4T;2025;4.00\n", f.output(t))
	assert.Equal(t, 2, summary.ArchivesProcessed)
	assert.Equal(t, 2, summary.ArchivesSkipped)
	assert.True(t, f.handler.ContainsAttr("filename", "2T2025.zip"))
	assert.True(t, f.handler.ContainsAttr("filename", "3T2025.zip"))
	assert.Len(t, f.handler.GetRecordsByLevel(slog.LevelError), 2)
}

func TestTransformer_SentinelPeriod(t *testing.T) {
	f := newTransformFixture(t)
	f.archive(t, "demonstracoes.zip", `d;9;c;EVENTOS;x;9,99`)

	summary, err := f.tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, outputHeader+"9000100;OPERADORA 9;0T;0000;9.99\n", f.output(t))
	assert.Equal(t, 1, summary.SentinelPeriods)
	testutil.AssertLogContains(t, f.handler, slog.LevelWarn, "sentinel")
}

func TestTransformer_FatalWhenStagingCannotBeCreated(t *testing.T) {
	f := newTransformFixture(t)
	require.NoError(t, os.RemoveAll(f.paths.StagingDir))
	require.NoError(t, os.WriteFile(f.paths.StagingDir, []byte("not a dir"), 0644))

	_, err := f.tr.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsFatal(err))
	assert.Equal(t, StateFailed, f.tr.State())
	assert.NoFileExists(t, f.paths.OutputCSV)
}

func TestTransformer_FatalWhenOutputCannotBeOpened(t *testing.T) {
	f := newTransformFixture(t)
	f.archive(t, "1T2025.zip", `d;1;c;EVENTOS;x;1,00`)

	f.tr.WithOutputOpener(func(string) (ConsolidatedOutput, error) {
		return nil, errors.New("permission denied")
	})

	_, err := f.tr.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsFatal(err))
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, StateFailed, f.tr.State())
}

type flakyOutput struct {
	written []domain.ExpenseRecord
	failOn  string
	closed  int
}

func (o *flakyOutput) Write(r domain.ExpenseRecord) error {
	if r.Identifier == o.failOn {
		return errors.New("device full")
	}
	o.written = append(o.written, r)
	return nil
}
func (o *flakyOutput) Flush() error { return nil }
func (o *flakyOutput) Count() int   { return len(o.written) }
func (o *flakyOutput) Close() error { o.closed++; return nil }

func TestTransformer_PartialArchiveKeepsWrittenRows(t *testing.T) {
	f := newTransformFixture(t)
	f.archive(t, "1T2025.zip",
		`d;1;c;EVENTOS;x;1,00`,
		`d;2;c;EVENTOS;x;2,00`,
		`d;3;c;EVENTOS;x;3,00`,
	)
	f.archive(t, "2T2025.zip", `d;5;c;EVENTOS;x;5,00`)

	out := &flakyOutput{failOn: "2000100"}
	f.tr.WithOutputOpener(func(string) (ConsolidatedOutput, error) { return out, nil })

	summary, err := f.tr.Run(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, r := range out.written {
		ids = append(ids, r.Identifier)
	}
	assert.Equal(t, []string{"1000100", "5000100"}, ids)
	assert.Equal(t, 1, summary.ArchivesSkipped)
	assert.Equal(t, 1, summary.ArchivesProcessed)
	assert.Equal(t, 2, summary.RecordsWritten)
	assert.GreaterOrEqual(t, out.closed, 1)
}

func TestTransformer_CancelledBetweenArchives(t *testing.T) {
	f := newTransformFixture(t)
	f.archive(t, "1T2025.zip", `d;1;c;EVENTOS;x;1,00`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.tr.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.ArchivesProcessed)
	assert.Equal(t, outputHeader, f.output(t))
	assert.Equal(t, StateFailed, f.tr.State())
}

func TestTransformer_StartsIdle(t *testing.T) {
	f := newTransformFixture(t)
	assert.Equal(t, StateIdle, f.tr.State())
}
