package verify

import "strings"

const (
	reportFieldSeparatorConstant = "\t"
	reportLineSeparatorConstant  = "\n"
	repositorySeparatorConstant  = "/"
)

// VerificationError ties a failure description to the manifest that produced it.
type VerificationError struct {
	SourceFile string
	Message    string
}

// Line renders the entry in report form.
func (verificationError VerificationError) Line() string {
	return verificationError.SourceFile + reportFieldSeparatorConstant + verificationError.Message
}

// ErrorReport is the ordered list of failures recorded during a run.
type ErrorReport []VerificationError

// Render joins the report lines with newlines, without a trailing newline.
func (report ErrorReport) Render() string {
	lines := make([]string, 0, len(report))
	for _, verificationError := range report {
		lines = append(lines, verificationError.Line())
	}
	return strings.Join(lines, reportLineSeparatorConstant)
}

// FileCheckResult describes the outcome of checking one revision. When
// Complete is false, MissingFile names the first absent file in check order.
type FileCheckResult struct {
	Revision    string
	Complete    bool
	MissingFile string
}

// RepositoryIdentifier builds the hub repository identifier for an adapter.
func RepositoryIdentifier(organizationName string, adapterName string) string {
	return organizationName + repositorySeparatorConstant + adapterName
}
