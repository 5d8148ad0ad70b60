package files

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func TestFindArchives(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		dirs     []string
		expected []string
	}{
		{
			name:     "sorted lexicographically",
			files:    []string{"3T2024.zip", "1T2025.zip", "2T2024.zip"},
			expected: []string{"1T2025.zip", "2T2024.zip", "3T2024.zip"},
		},
		{
			name:     "suffix match is case-insensitive",
			files:    []string{"4T2024.ZIP", "1T2025.zip"},
			expected: []string{"1T2025.zip", "4T2024.ZIP"},
		},
		{
			name:     "other extensions ignored",
			files:    []string{"1T2025.zip", "notes.txt", "1T2025.csv", "zip"},
			expected: []string{"1T2025.zip"},
		},
		{
			name:     "directories ignored",
			files:    []string{"1T2025.zip"},
			dirs:     []string{"old.zip"},
			expected: []string{"1T2025.zip"},
		},
		{
			name:     "empty directory",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				touch(t, dir, f)
			}
			for _, d := range tt.dirs {
				require.NoError(t, os.Mkdir(filepath.Join(dir, d), 0755))
			}

			found, err := NewDiscovery("").FindArchives(dir, ".zip")
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
				assert.EqualValues(t, 1, f.Size)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestFindArchives_RelativeToBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "downloads"), 0755))
	touch(t, filepath.Join(base, "downloads"), "1T2025.zip")

	found, err := NewDiscovery(base).FindArchives("downloads", ".zip")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(base, "downloads", "1T2025.zip"), found[0].Path)
}

func TestFindArchives_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery("").FindArchives(filepath.Join(t.TempDir(), "missing"), ".zip")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDirectoryNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1T2025.zip")
	touch(t, dir, "2T2025.zip")
	touch(t, dir, "consolidado.csv")

	found, err := NewDiscovery(dir).FindFilesByPattern(".", "*T2025.zip")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = NewDiscovery(dir).FindFilesByPattern(".", "[")
	assert.Error(t, err)
}
