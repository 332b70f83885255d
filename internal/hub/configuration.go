package hub

import (
	"strings"
	"time"
)

const (
	configurationEndpointKeyConstant    = "endpoint"
	configurationTokenSourceKeyConstant = "token_source"
	configurationTimeoutKeyConstant     = "timeout"
	configurationKeySeparatorConstant   = "."
)

// Configuration captures hub access settings loaded from configuration files.
type Configuration struct {
	Endpoint    string        `mapstructure:"endpoint"`
	TokenSource string        `mapstructure:"token_source"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// DefaultConfiguration leaves the endpoint empty so HF_ENDPOINT can apply.
func DefaultConfiguration() Configuration {
	return Configuration{
		Endpoint:    "",
		TokenSource: "",
		Timeout:     DefaultTimeout,
	}
}

// DefaultConfigurationValues produces Viper defaults rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationEndpointKeyConstant:    defaults.Endpoint,
		rootKey + configurationKeySeparatorConstant + configurationTokenSourceKeyConstant: defaults.TokenSource,
		rootKey + configurationKeySeparatorConstant + configurationTimeoutKeyConstant:     defaults.Timeout.String(),
	}
}

// Sanitize trims textual values and restores the default timeout when unset.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Endpoint = strings.TrimSpace(configuration.Endpoint)
	sanitized.TokenSource = strings.TrimSpace(configuration.TokenSource)
	if sanitized.Timeout <= 0 {
		sanitized.Timeout = DefaultTimeout
	}
	return sanitized
}
