package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	absZip := filepath.Join(t.TempDir(), "out.zip")

	paths, err := ResolvePaths(PathsConfig{
		BaseDir:    base,
		StagingDir: "downloads",
		OutputCSV:  "out/consolidado.csv",
		OutputZip:  absZip,
		LogsDir:    "logs",
	})
	require.NoError(t, err)

	assert.Equal(t, base, paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "downloads"), paths.StagingDir)
	assert.Equal(t, filepath.Join(base, "out", "consolidado.csv"), paths.OutputCSV)
	assert.Equal(t, absZip, paths.OutputZip)
	assert.Equal(t, filepath.Join(base, "downloads", "1T2025.zip"), paths.GetStagingPath("1T2025.zip"))
	assert.Equal(t, filepath.Join(base, "logs", "etl.log"), paths.GetLogPath("etl.log"))
}

func TestResolvePaths_DefaultsToWorkingDirectory(t *testing.T) {
	paths, err := ResolvePaths(Default().Paths)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, paths.BaseDir)
	assert.Equal(t, filepath.Join(wd, DefaultStagingDir), paths.StagingDir)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths, err := ResolvePaths(PathsConfig{
		BaseDir:    base,
		StagingDir: "a/b/downloads",
		OutputCSV:  "reports/consolidado.csv",
		OutputZip:  "dist/consolidado.zip",
		LogsDir:    "logs",
	})
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{"a/b/downloads", "reports", "dist", "logs"} {
		info, err := os.Stat(filepath.Join(base, dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
	assert.True(t, FileExists(paths.StagingDir))
	assert.False(t, FileExists(paths.OutputCSV))
}
