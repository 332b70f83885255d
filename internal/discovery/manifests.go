package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

const (
	// DefaultRoot is the directory manifest folders are resolved against.
	DefaultRoot = "."
	// DefaultPattern matches every visible entry directly inside the folder.
	DefaultPattern                     = "*"
	hiddenEntryPrefixConstant          = "."
	patternSeparatorConstant           = "/"
	invalidPatternTemplateConstant     = "invalid manifest pattern %q: %w"
	folderMissingTemplateConstant      = "manifest folder %s not found: %w"
	folderNotDirectoryTemplateConstant = "manifest folder %s is not a directory"
	walkErrorTemplateConstant          = "unable to list manifest folder %s: %w"
)

// ManifestDiscoverer lists manifest files beneath a folder.
type ManifestDiscoverer struct {
	fileSystem afero.Fs
}

// NewManifestDiscoverer constructs a discoverer; a nil filesystem selects the operating system.
func NewManifestDiscoverer(fileSystem afero.Fs) *ManifestDiscoverer {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &ManifestDiscoverer{fileSystem: fileSystem}
}

// FolderPath joins folder to root unless folder is already absolute.
func FolderPath(root string, folder string) string {
	if filepath.IsAbs(folder) {
		return filepath.Clean(folder)
	}
	if len(strings.TrimSpace(root)) == 0 {
		root = DefaultRoot
	}
	return filepath.Join(root, folder)
}

// DiscoverManifests returns the entries in root/folder whose slash separated
// path relative to the folder matches pattern, sorted lexically. Hidden
// entries are skipped. Patterns without a separator match entries directly
// inside the folder, subdirectories included, so a stray directory surfaces
// as a manifest that cannot be read. Patterns with a separator descend into
// subdirectories and match files only.
func (discoverer *ManifestDiscoverer) DiscoverManifests(root string, folder string, pattern string) ([]string, error) {
	trimmedPattern := strings.TrimSpace(pattern)
	if len(trimmedPattern) == 0 {
		trimmedPattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(trimmedPattern) {
		return nil, fmt.Errorf(invalidPatternTemplateConstant, trimmedPattern, doublestar.ErrBadPattern)
	}

	folderPath := FolderPath(root, folder)
	folderInfo, statError := discoverer.fileSystem.Stat(folderPath)
	if statError != nil {
		return nil, fmt.Errorf(folderMissingTemplateConstant, folderPath, statError)
	}
	if !folderInfo.IsDir() {
		return nil, fmt.Errorf(folderNotDirectoryTemplateConstant, folderPath)
	}

	descendIntoSubdirectories := strings.Contains(trimmedPattern, patternSeparatorConstant)

	var manifestPaths []string
	walkError := afero.Walk(discoverer.fileSystem, folderPath, func(path string, info fs.FileInfo, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if path == folderPath {
			return nil
		}

		if strings.HasPrefix(info.Name(), hiddenEntryPrefixConstant) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() && descendIntoSubdirectories {
			return nil
		}

		relativePath, relativeError := filepath.Rel(folderPath, path)
		if relativeError != nil {
			return relativeError
		}

		matched, matchError := doublestar.Match(trimmedPattern, filepath.ToSlash(relativePath))
		if matchError != nil {
			return matchError
		}
		if matched {
			manifestPaths = append(manifestPaths, path)
		}
		if info.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(walkErrorTemplateConstant, folderPath, walkError)
	}

	sort.Strings(manifestPaths)
	return manifestPaths, nil
}
