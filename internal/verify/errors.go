package verify

import (
	"errors"
	"fmt"
)

const (
	repoNotFoundMessageConstant          = "Repo does not exist."
	missingFileTemplateConstant          = "File %s not found in version %s"
	reportWriteErrorTemplateConstant     = "unable to write report %s: %v"
	hubClientMissingMessageConstant      = "hub client not configured"
	reportWriterMissingMessageConstant   = "report writer not configured"
	organizationMissingMessageConstant   = "organization name must be provided"
	manifestFolderMissingMessageConstant = "manifest folder must be provided; pass it as an argument or configure tools.verify.folder"
)

var (
	// ErrHubClientNotConfigured indicates the verifier was built without a hub client.
	ErrHubClientNotConfigured = errors.New(hubClientMissingMessageConstant)
	// ErrReportWriterNotConfigured indicates the verifier was built without a report writer.
	ErrReportWriterNotConfigured = errors.New(reportWriterMissingMessageConstant)
	// ErrOrganizationMissing indicates an empty organization name.
	ErrOrganizationMissing = errors.New(organizationMissingMessageConstant)
)

// RepoNotFoundError reports that the adapter's hub repository does not exist.
type RepoNotFoundError struct {
	RepositoryIdentifier string
}

// Error describes the missing repository.
func (RepoNotFoundError) Error() string {
	return repoNotFoundMessageConstant
}

// MissingFileError reports the first required file absent at a revision.
type MissingFileError struct {
	Filename string
	Revision string
}

// Error describes the missing file.
func (missingFileError MissingFileError) Error() string {
	return fmt.Sprintf(missingFileTemplateConstant, missingFileError.Filename, missingFileError.Revision)
}

// ReportWriteError wraps failures persisting the report. It aborts the run.
type ReportWriteError struct {
	Path  string
	Cause error
}

// Error describes the write failure.
func (writeError ReportWriteError) Error() string {
	return fmt.Sprintf(reportWriteErrorTemplateConstant, writeError.Path, writeError.Cause)
}

// Unwrap exposes the underlying cause.
func (writeError ReportWriteError) Unwrap() error {
	return writeError.Cause
}
