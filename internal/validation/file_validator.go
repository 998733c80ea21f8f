package validation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
)

// FileValidator checks input and output locations before the pipeline runs.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateInputDirectory checks that dir is a directory and counts the
// entries matching pattern, ignoring Excel lock files. Finding none is
// logged, not returned.
func (v *FileValidator) ValidateInputDirectory(ctx context.Context, dir, pattern string) (int, error) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return 0, apperrors.NewStorageError(fmt.Sprintf("directory %s does not exist", dir), err).
			WithContext("directory", dir)
	case err != nil:
		return 0, apperrors.NewStorageError("failed to read directory", err).
			WithContext("directory", dir)
	case !info.IsDir():
		return 0, apperrors.NewStorageError(fmt.Sprintf("%s is not a directory", dir), nil).
			WithContext("directory", dir)
	}

	if pattern == "" {
		return 0, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, apperrors.NewAppValidationError(fmt.Sprintf("invalid file pattern %q", pattern))
	}

	found := 0
	for _, m := range matches {
		if !strings.HasPrefix(filepath.Base(m), "~$") {
			found++
		}
	}
	if found == 0 {
		v.logger.WarnContext(ctx, "No matching files in directory",
			slog.String("directory", dir),
			slog.String("pattern", pattern))
		return 0, nil
	}

	v.logger.DebugContext(ctx, "Input directory validated",
		slog.String("directory", dir),
		slog.String("pattern", pattern),
		slog.Int("files_found", found))
	return found, nil
}

// ValidateOutputDirectory creates dir when needed and proves it is writable
// with a throwaway temp file.
func (v *FileValidator) ValidateOutputDirectory(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext("directory", dir)
	}

	tmp, err := os.CreateTemp(dir, ".skye-write-*")
	if err != nil {
		v.logger.ErrorContext(ctx, "Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory is not writable", err).
			WithContext("directory", dir)
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)

	v.logger.DebugContext(ctx, "Output directory validated",
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
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
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

// ValidateOrdersFile checks the e-commerce export, which is always CSV.
func (v *FileValidator) ValidateOrdersFile(path string) error {
	return v.validateWithExtensions(path, ".csv")
}

// ValidateLogisticsFile checks the 3PL export, which may be CSV or xlsx.
func (v *FileValidator) ValidateLogisticsFile(path string) error {
	return v.validateWithExtensions(path, ".xlsx", ".csv")
}

// ValidateReportFile checks a previously written period report.
func (v *FileValidator) ValidateReportFile(path string) error {
	return v.validateWithExtensions(path, ".xlsx")
}

func (v *FileValidator) validateWithExtensions(path string, exts ...string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel lock file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range exts {
		if ext == want {
			return nil
		}
	}
	v.logger.Error("Unsupported file type",
		slog.String("file", path),
		slog.String("extension", ext))
	return fmt.Errorf("file %s has unsupported extension %q (want %s)", path, ext, strings.Join(exts, " or "))
}
