package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute locations used by a run
type Paths struct {
	BaseDir    string
	StagingDir string
	OutputCSV  string
	OutputZip  string
	LogsDir    string
}

// ResolvePaths turns the configured locations into absolute paths.
// Relative entries are resolved against BaseDir, which itself defaults to
// the working directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		base = "."
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	return &Paths{
		BaseDir:    base,
		StagingDir: resolve(cfg.StagingDir),
		OutputCSV:  resolve(cfg.OutputCSV),
		OutputZip:  resolve(cfg.OutputZip),
		LogsDir:    resolve(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates the staging directory and the parents of every output
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.StagingDir,
		filepath.Dir(p.OutputCSV),
		filepath.Dir(p.OutputZip),
	}
	if p.LogsDir != "" {
		directories = append(directories, p.LogsDir)
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetStagingPath returns the path of a file inside the staging directory
func (p *Paths) GetStagingPath(filename string) string {
	return filepath.Join(p.StagingDir, filename)
}

// GetLogPath returns the path of a file inside the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved locations for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.String("base", p.BaseDir),
		slog.String("staging", p.StagingDir),
		slog.String("output_csv", p.OutputCSV),
		slog.String("output_zip", p.OutputZip),
		slog.String("logs", p.LogsDir))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
