package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/exporter"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/infrastructure"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/shared/testutil"
)

func TestRun_ExplicitPaths(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	in := t.TempDir()
	out := t.TempDir()
	testutil.WriteSourceArchive(t, in, "2T2024.zip",
		`"";"111111";"X";"EVENTOS INDENIZAVEIS";"Y";"10,5"`,
		`"";"222222";"X";"SINISTROS";"Y";"-500,00"`)

	csvPath := filepath.Join(out, "consolidado.csv")
	zipPath := filepath.Join(out, "consolidado_despesas.zip")

	var stdout bytes.Buffer
	code := run([]string{
		"-config", writeEmptyConfig(t, out),
		"-in", in, "-out", csvPath, "-zip", zipPath,
	}, &stdout)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "1 records from 1 archives")

	unpacked, err := exporter.Unpack(zipPath, t.TempDir())
	require.NoError(t, err)
	require.Len(t, unpacked, 1)
	content, err := os.ReadFile(unpacked[0])
	require.NoError(t, err)
	assert.Equal(t, "CNPJ;RazaoSocial;Trimestre;Ano;ValorDespesas\n111111000100;OPERADORA 111111;2T;2024;10.50\n", string(content))
}

func TestRun_MissingInputDirectory(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	base := t.TempDir()
	var stdout bytes.Buffer
	code := run([]string{
		"-config", writeEmptyConfig(t, base),
		"-in", filepath.Join(base, "nope"),
	}, &stdout)
	assert.Equal(t, 1, code)
}

func writeEmptyConfig(t *testing.T, base string) string {
	t.Helper()

	path := filepath.Join(base, "config.yaml")
	content := "paths:\n  base_dir: " + base + "\n" +
		"logging:\n  output: console\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
