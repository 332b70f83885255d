package manifest

import (
	"github.com/spf13/afero"
)

// Loader reads manifests from a filesystem.
type Loader struct {
	fileSystem afero.Fs
}

// NewLoader constructs a Loader; a nil filesystem selects the operating system.
func NewLoader(fileSystem afero.Fs) *Loader {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &Loader{fileSystem: fileSystem}
}

// Load reads and parses the manifest at manifestPath.
func (loader *Loader) Load(manifestPath string) (AdapterDescriptor, error) {
	isDirectory, statError := afero.IsDir(loader.fileSystem, manifestPath)
	if statError == nil && isDirectory {
		return AdapterDescriptor{}, ParseError{Path: manifestPath, Reason: reasonReadFailedConstant, Cause: ErrManifestIsDirectory}
	}

	content, readError := afero.ReadFile(loader.fileSystem, manifestPath)
	if readError != nil {
		return AdapterDescriptor{}, ParseError{Path: manifestPath, Reason: reasonReadFailedConstant, Cause: readError}
	}

	descriptor, parseError := Parse(AdapterNameFromPath(manifestPath), content)
	if parseError != nil {
		if typedError, isParseError := parseError.(ParseError); isParseError {
			typedError.Path = manifestPath
			return AdapterDescriptor{}, typedError
		}
		return AdapterDescriptor{}, parseError
	}

	return descriptor, nil
}
