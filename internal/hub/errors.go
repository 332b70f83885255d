package hub

import (
	"errors"
	"fmt"
)

const (
	networkErrorMessageConstant          = "hub request failed"
	statusErrorTemplateConstant          = "%s returned status %d"
	statusErrorWithCodeTemplateConstant  = "%s returned status %d (%s)"
	invalidInputErrorTemplateConstant    = "%s: %s"
	requestCreationErrorTemplateConstant = "%s request creation failed: %w"
	transportErrorTemplateConstant       = "%s: %w: %w"
)

// OperationName identifies a hub API operation in errors and logs.
type OperationName string

// Supported operations.
const (
	RepoExistsOperationName OperationName = "RepoExists"
	FileExistsOperationName OperationName = "FileExists"
)

// ErrNetwork marks transport failures reaching the hub.
var ErrNetwork = errors.New(networkErrorMessageConstant)

// StatusError reports an HTTP status the client cannot interpret as an answer.
type StatusError struct {
	Operation  OperationName
	StatusCode int
	ErrorCode  string
}

// Error describes the unexpected status.
func (statusError StatusError) Error() string {
	if len(statusError.ErrorCode) == 0 {
		return fmt.Sprintf(statusErrorTemplateConstant, statusError.Operation, statusError.StatusCode)
	}
	return fmt.Sprintf(statusErrorWithCodeTemplateConstant, statusError.Operation, statusError.StatusCode, statusError.ErrorCode)
}

// InvalidInputError surfaces validation issues for client inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}
