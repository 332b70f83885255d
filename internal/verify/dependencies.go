package verify

import (
	"context"

	"github.com/temirov/hubverify/internal/manifest"
)

// HubClient answers existence questions against the model hub.
type HubClient interface {
	RepoExists(executionContext context.Context, repositoryIdentifier string) (bool, error)
	FileExists(executionContext context.Context, repositoryIdentifier string, filename string, revision string) (bool, error)
}

// ManifestLoader reads one adapter manifest.
type ManifestLoader interface {
	Load(manifestPath string) (manifest.AdapterDescriptor, error)
}
