package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "inflammation/internal/errors"
)

// FileValidator checks the paths handed to the driver and the server
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "validation")),
	}
}

// ValidateInfiles checks the positional arguments of the driver: at least
// one path, none empty. The files themselves need not exist since only the
// directory and extension of the first one are used.
func (v *FileValidator) ValidateInfiles(infiles []string) error {
	if len(infiles) == 0 {
		return apperrors.NewAppValidationError("at least one input file is required")
	}
	for i, f := range infiles {
		if strings.TrimSpace(f) == "" {
			return apperrors.NewAppValidationError(fmt.Sprintf("input file %d is empty", i)).
				WithContext("index", i)
		}
	}
	return v.ValidateInputDirectory(filepath.Dir(infiles[0]))
}

// ValidateInputDirectory checks that dir exists and is a directory. A missing
// directory has no data in it.
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Warn("Input directory does not exist", slog.String("directory", dir))
		return apperrors.NewAppError(apperrors.ErrTypeNoData,
			fmt.Sprintf("input directory %s does not exist", dir), err).
			WithContext("dir", dir)
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is not a directory", dir)).
			WithContext("dir", dir)
	}
	return nil
}

// ValidateOutputFile ensures the directory of path exists and is writable
// and that path itself is not a directory.
func (v *FileValidator) ValidateOutputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return apperrors.NewAppValidationError("output path is empty")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apperrors.NewAppValidationError(fmt.Sprintf("output path %s is a directory", path))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}

// PathGuard confines request paths to a root directory.
type PathGuard struct {
	root string
}

// NewPathGuard creates a guard for root. The root is made absolute.
func NewPathGuard(root string) (*PathGuard, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data root %s: %w", root, err)
	}
	return &PathGuard{root: abs}, nil
}

// Root returns the absolute root directory
func (g *PathGuard) Root() string {
	return g.root
}

// Resolve joins a client-supplied path onto the root and rejects any path
// that would escape it.
func (g *PathGuard) Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", apperrors.NewAppValidationError("path is required")
	}
	if filepath.IsAbs(path) {
		return "", apperrors.NewAppValidationError("path must be relative to the data root").
			WithContext("path", path)
	}

	full := filepath.Join(g.root, path)
	rel, err := filepath.Rel(g.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.NewAppValidationError("path escapes the data root").
			WithContext("path", path)
	}
	return full, nil
}
