package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	predictionHeadKeyConstant = "prediction_head"
	filesKeyConstant          = "files"
)

type manifestDocument struct {
	PredictionHead *bool                `yaml:"prediction_head"`
	DefaultVersion scalarText           `yaml:"default_version"`
	Files          *[]manifestFileEntry `yaml:"files"`
}

type manifestFileEntry struct {
	Version scalarText `yaml:"version"`
}

// scalarText keeps the literal text of any YAML scalar so numeric versions
// such as `version: 1` survive decoding unchanged.
type scalarText struct {
	value string
}

func (text *scalarText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf(reasonScalarExpectedTemplateConstant, node.Line)
	}
	text.value = node.Value
	return nil
}

// Parse decodes manifest content into a validated AdapterDescriptor.
func Parse(adapterName string, content []byte) (AdapterDescriptor, error) {
	var document manifestDocument
	if decodeError := yaml.Unmarshal(content, &document); decodeError != nil {
		return AdapterDescriptor{}, ParseError{Reason: reasonDecodeFailedConstant, Cause: decodeError}
	}

	if document.Files == nil {
		return AdapterDescriptor{}, ParseError{Reason: fmt.Sprintf(reasonMissingKeyTemplateConstant, filesKeyConstant)}
	}

	if document.PredictionHead == nil {
		return AdapterDescriptor{}, ParseError{Reason: fmt.Sprintf(reasonMissingKeyTemplateConstant, predictionHeadKeyConstant)}
	}

	versions := make([]VersionEntry, 0, len(*document.Files))
	for entryIndex, fileEntry := range *document.Files {
		if len(fileEntry.Version.value) == 0 {
			return AdapterDescriptor{}, ParseError{Reason: fmt.Sprintf(reasonEntryVersionTemplateConstant, entryIndex)}
		}
		versions = append(versions, VersionEntry{Version: fileEntry.Version.value})
	}

	return AdapterDescriptor{
		AdapterName:       adapterName,
		HasPredictionHead: *document.PredictionHead,
		DefaultVersion:    document.DefaultVersion.value,
		Versions:          versions,
	}, nil
}
