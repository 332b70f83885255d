package verify

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// DefaultReportPath is the report location used when none is configured.
	DefaultReportPath                 = "verify_errors.txt"
	reportFilePermissionsConstant     = 0o644
	reportDirectoryPermissionConstant = 0o755
)

// ReportWriter persists the current ErrorReport, replacing any previous contents.
type ReportWriter interface {
	WriteReport(report ErrorReport) error
	Path() string
}

// FileReportWriter rewrites a report file on each call.
type FileReportWriter struct {
	fileSystem afero.Fs
	path       string
}

// NewFileReportWriter constructs a FileReportWriter. A nil filesystem selects
// the operating system and an empty path selects DefaultReportPath.
func NewFileReportWriter(fileSystem afero.Fs, reportPath string) *FileReportWriter {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	trimmedPath := strings.TrimSpace(reportPath)
	if len(trimmedPath) == 0 {
		trimmedPath = DefaultReportPath
	}
	return &FileReportWriter{fileSystem: fileSystem, path: trimmedPath}
}

// Path returns the report location.
func (writer *FileReportWriter) Path() string {
	return writer.path
}

// WriteReport truncates the report file and writes the rendered report.
func (writer *FileReportWriter) WriteReport(report ErrorReport) error {
	directory := filepath.Dir(writer.path)
	if directory != "." && len(directory) > 0 {
		if directoryError := writer.fileSystem.MkdirAll(directory, reportDirectoryPermissionConstant); directoryError != nil {
			return directoryError
		}
	}
	return afero.WriteFile(writer.fileSystem, writer.path, []byte(report.Render()), reportFilePermissionsConstant)
}
