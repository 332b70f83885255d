package adapters

// Artifact file names written for every uploaded adapter revision.
const (
	WeightsFileName     = "pytorch_adapter.bin"
	ConfigFileName      = "adapter_config.json"
	HeadWeightsFileName = "pytorch_model_head.bin"
	HeadConfigFileName  = "head_config.json"
	ReadmeFileName      = "README.md"
)

// MainRevision names the repository revision that mirrors the default version.
const MainRevision = "main"

// RequiredFiles lists the files expected at a revision in canonical check order.
func RequiredFiles(hasPredictionHead bool) []string {
	requiredFiles := []string{WeightsFileName, ConfigFileName}
	if hasPredictionHead {
		requiredFiles = append(requiredFiles, HeadWeightsFileName, HeadConfigFileName)
	}
	return append(requiredFiles, ReadmeFileName)
}
