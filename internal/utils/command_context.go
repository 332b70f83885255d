package utils

import "context"

type commandContextKey struct {
	name string
}

var configurationFilePathContextKey = commandContextKey{name: "configuration_file_path"}

// CommandContextAccessor stores CLI metadata on command contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath records the configuration file that was loaded.
func (CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKey, configurationFilePath)
}

// ConfigurationFilePath returns the recorded configuration file. The boolean
// is false when no file was recorded or the recorded value is empty.
func (CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, isString := executionContext.Value(configurationFilePathContextKey).(string)
	if !isString || len(configurationFilePath) == 0 {
		return "", false
	}
	return configurationFilePath, true
}
