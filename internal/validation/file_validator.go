package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/files"
)

// FileValidator provides common file validation functions for all executables
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory validates that input directory exists and reports
// how many files match requiredPattern. No matches is not an error.
func (v *FileValidator) ValidateInputDirectory(dir string, requiredPattern string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return 0, fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return 0, fmt.Errorf("%s is not a directory", dir)
	}

	if requiredPattern == "" {
		return 0, nil
	}

	count, err := v.CountFiles(dir, requiredPattern)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		v.logger.Warn("No files matching pattern found",
			slog.String("directory", dir),
			slog.String("pattern", requiredPattern))
		return 0, nil
	}

	v.logger.Info("Input directory validated",
		slog.String("directory", dir),
		slog.Int("files_found", count),
		slog.String("pattern", requiredPattern))
	return count, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	file, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := file.Name()
	file.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// CountFiles counts files matching a pattern in a directory
func (v *FileValidator) CountFiles(dir string, pattern string) (int, error) {
	matches, err := files.NewDiscovery("").FindFilesByPattern(dir, pattern)
	if err != nil {
		v.logger.Error("Failed to count files",
			slog.String("directory", dir),
			slog.String("pattern", pattern),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	fileCount := len(matches)

	v.logger.Debug("Files counted",
		slog.String("directory", dir),
		slog.String("pattern", pattern),
		slog.Int("count", fileCount))
	return fileCount, nil
}

// ValidateExtension checks that path ends with ext, ignoring case.
func (v *FileValidator) ValidateExtension(path, ext string) error {
	got := filepath.Ext(path)
	if !strings.EqualFold(got, ext) {
		v.logger.Error("Unexpected file extension",
			slog.String("file", path),
			slog.String("expected", ext),
			slog.String("extension", got))
		return fmt.Errorf("file %s must have extension %s (got %q)", path, ext, got)
	}
	return nil
}

// ValidateArchiveFile checks that path is a readable zip archive
func (v *FileValidator) ValidateArchiveFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	return v.ValidateExtension(path, ".zip")
}

// ValidateOutputTargets checks the consolidated CSV and its package path
// before a run starts writing.
func (v *FileValidator) ValidateOutputTargets(csvPath, zipPath string) error {
	if err := v.ValidateExtension(csvPath, ".csv"); err != nil {
		return err
	}
	if err := v.ValidateExtension(zipPath, ".zip"); err != nil {
		return err
	}
	if filepath.Clean(csvPath) == filepath.Clean(zipPath) {
		return fmt.Errorf("output csv and zip must be different files: %s", csvPath)
	}
	if err := v.ValidateOutputDirectory(filepath.Dir(csvPath)); err != nil {
		return err
	}
	return v.ValidateOutputDirectory(filepath.Dir(zipPath))
}
