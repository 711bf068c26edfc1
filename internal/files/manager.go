package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Manager provides file management operations rooted at a base directory
type Manager struct {
	basePath string
}

// NewManager creates a new file manager instance
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// WriteFile writes data through a temporary file in the same directory and
// renames it into place, so readers never observe a partial file.
func (m *Manager) WriteFile(path string, data []byte) error {
	fullPath := m.resolvePath(path)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", fullPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", fullPath, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", fullPath, err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename into %s: %w", fullPath, err)
	}

	slog.Debug("Wrote file",
		slog.String("full_path", fullPath),
		slog.Int("size_bytes", len(data)))

	return nil
}

// resolvePath joins relative paths onto the base directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) || m.basePath == "" {
		return path
	}
	return filepath.Join(m.basePath, path)
}
