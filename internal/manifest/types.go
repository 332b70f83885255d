package manifest

import (
	"path/filepath"
	"strings"

	"github.com/temirov/hubverify/internal/adapters"
)

const adapterNameSeparatorConstant = "."

// VersionEntry identifies one uploaded revision of an adapter.
type VersionEntry struct {
	Version string
}

// AdapterDescriptor captures the verification-relevant contents of one manifest.
type AdapterDescriptor struct {
	AdapterName       string
	HasPredictionHead bool
	DefaultVersion    string
	Versions          []VersionEntry
}

// RequiredFiles returns the files every revision of the adapter must contain.
func (descriptor AdapterDescriptor) RequiredFiles() []string {
	return adapters.RequiredFiles(descriptor.HasPredictionHead)
}

// IsDefault reports whether the version is the adapter's default version.
func (descriptor AdapterDescriptor) IsDefault(version string) bool {
	if len(descriptor.DefaultVersion) == 0 {
		return false
	}
	return version == descriptor.DefaultVersion
}

// AdapterNameFromPath derives the adapter name from a manifest path: the base
// name truncated at its first dot.
func AdapterNameFromPath(manifestPath string) string {
	baseName := filepath.Base(manifestPath)
	nameComponents := strings.SplitN(baseName, adapterNameSeparatorConstant, 2)
	return nameComponents[0]
}
