package manifest

import (
	"errors"
	"fmt"
)

const (
	parseErrorWithCauseTemplateConstant  = "%s: %v"
	reasonDecodeFailedConstant           = "unable to parse manifest"
	reasonReadFailedConstant             = "unable to read manifest"
	reasonMissingKeyTemplateConstant     = "manifest missing required key %q"
	reasonEntryVersionTemplateConstant   = "manifest entry %d missing version"
	reasonScalarExpectedTemplateConstant = "expected a scalar value at line %d"
	manifestIsDirectoryMessageConstant   = "manifest path is a directory"
)

// ErrManifestIsDirectory indicates a manifest path that names a directory.
var ErrManifestIsDirectory = errors.New(manifestIsDirectoryMessageConstant)

// ParseError reports a manifest that could not be read, decoded, or validated.
type ParseError struct {
	Path   string
	Reason string
	Cause  error
}

// Error describes the parse failure.
func (parseError ParseError) Error() string {
	if parseError.Cause == nil {
		return parseError.Reason
	}
	return fmt.Sprintf(parseErrorWithCauseTemplateConstant, parseError.Reason, parseError.Cause)
}

// Unwrap exposes the underlying cause.
func (parseError ParseError) Unwrap() error {
	return parseError.Cause
}
