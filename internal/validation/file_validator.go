package validation

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "reportsplit/internal/errors"
)

// FileValidator checks the directories a run reads from and writes to
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

// ValidateInputDirectory checks that dir exists, is a directory and can be listed
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewIOError(fmt.Sprintf("input directory %s does not exist", dir), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewIOError(fmt.Sprintf("%s is not a directory", dir), nil)
	}

	f, err := os.Open(dir)
	if err != nil {
		return apperrors.NewIOError(fmt.Sprintf("input directory %s is not readable", dir), err)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && err != io.EOF {
		return apperrors.NewIOError(fmt.Sprintf("input directory %s is not readable", dir), err)
	}

	v.logger.Debug("Input directory validated", slog.String("directory", dir))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
// and accepts new files
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	file, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	name := file.Name()
	file.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// SameDirectory reports whether input and output resolve to one directory.
// Split files written there would be picked up as inputs by the next run,
// so a warning is logged.
func (v *FileValidator) SameDirectory(inputDir, outputDir string) bool {
	in, errIn := filepath.Abs(inputDir)
	out, errOut := filepath.Abs(outputDir)
	if errIn != nil || errOut != nil {
		return false
	}

	same := filepath.Clean(in) == filepath.Clean(out)
	if !same {
		if a, err := os.Stat(in); err == nil {
			if b, err := os.Stat(out); err == nil {
				same = os.SameFile(a, b)
			}
		}
	}

	if same {
		v.logger.Warn("Output directory is the input directory; split files will be treated as inputs on the next run",
			slog.String("directory", in))
	}
	return same
}
