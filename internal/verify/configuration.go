package verify

import (
	"strings"

	"github.com/temirov/hubverify/internal/discovery"
	pathutils "github.com/temirov/hubverify/internal/utils/path"
)

const (
	// DefaultOrganizationName is the hub namespace adapters migrate into.
	DefaultOrganizationName              = "AdapterHub"
	defaultConcurrencyConstant           = 1
	configurationOrganizationKeyConstant = "org"
	configurationReportPathKeyConstant   = "report_path"
	configurationRootKeyConstant         = "root"
	configurationFolderKeyConstant       = "folder"
	configurationPatternKeyConstant      = "pattern"
	configurationConcurrencyKeyConstant  = "concurrency"
	configurationKeySeparatorConstant    = "."
)

// CommandConfiguration captures configuration values for the verify command.
type CommandConfiguration struct {
	Organization string `mapstructure:"org"`
	ReportPath   string `mapstructure:"report_path"`
	Root         string `mapstructure:"root"`
	Folder       string `mapstructure:"folder"`
	Pattern      string `mapstructure:"pattern"`
	Concurrency  int    `mapstructure:"concurrency"`
}

// DefaultCommandConfiguration provides baseline configuration values for verify.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Organization: DefaultOrganizationName,
		ReportPath:   DefaultReportPath,
		Root:         discovery.DefaultRoot,
		Folder:       "",
		Pattern:      discovery.DefaultPattern,
		Concurrency:  defaultConcurrencyConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationOrganizationKeyConstant: defaults.Organization,
		rootKey + configurationKeySeparatorConstant + configurationReportPathKeyConstant:   defaults.ReportPath,
		rootKey + configurationKeySeparatorConstant + configurationRootKeyConstant:         defaults.Root,
		rootKey + configurationKeySeparatorConstant + configurationFolderKeyConstant:       defaults.Folder,
		rootKey + configurationKeySeparatorConstant + configurationPatternKeyConstant:      defaults.Pattern,
		rootKey + configurationKeySeparatorConstant + configurationConcurrencyKeyConstant:  defaults.Concurrency,
	}
}

// Sanitize trims values, expands home shortcuts in paths, and restores
// defaults for empty required values.
func (configuration CommandConfiguration) Sanitize(homeExpander *pathutils.HomeExpander) CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Organization = valueOrDefault(configuration.Organization, defaults.Organization)
	sanitized.ReportPath = homeExpander.Expand(valueOrDefault(configuration.ReportPath, defaults.ReportPath))
	sanitized.Root = homeExpander.Expand(valueOrDefault(configuration.Root, defaults.Root))
	sanitized.Folder = homeExpander.Expand(strings.TrimSpace(configuration.Folder))
	sanitized.Pattern = valueOrDefault(configuration.Pattern, defaults.Pattern)
	if sanitized.Concurrency < 1 {
		sanitized.Concurrency = defaults.Concurrency
	}

	return sanitized
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
