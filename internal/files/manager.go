package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Manager provides file management operations
type Manager struct {
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(path)
	exists := err == nil

	m.logger.Debug("FileExists check",
		slog.String("path", path),
		slog.Bool("exists", exists))

	return exists
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (m *Manager) EnsureDirectory(path string) error {
	m.logger.Debug("Ensuring directory exists", slog.String("path", path))

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// WriteAtomic streams r into a temporary file next to dst and renames it
// into place, so readers never observe a partially written dst.
func (m *Manager) WriteAtomic(dst string, r io.Reader) (int64, error) {
	dir := filepath.Dir(dst)
	if err := m.EnsureDirectory(dir); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("failed to write %s: %w", dst, err)
	}

	if err := m.MoveFile(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return n, err
	}

	m.logger.Info("File written",
		slog.String("path", dst),
		slog.Int64("size_bytes", n))

	return n, nil
}

// MoveFile moves a file from source to destination
func (m *Manager) MoveFile(src, dst string) error {
	if err := m.EnsureDirectory(filepath.Dir(dst)); err != nil {
		return err
	}

	// Try rename first (atomic if on same filesystem)
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := m.CopyFile(src, dst); err != nil {
		return err
	}

	return os.Remove(src)
}

// CopyFile copies a file from source to destination
func (m *Manager) CopyFile(src, dst string) error {
	m.logger.Debug("Copying file",
		slog.String("src", src),
		slog.String("dst", dst))

	if err := m.EnsureDirectory(filepath.Dir(dst)); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return dstFile.Sync()
}
