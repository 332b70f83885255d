package hub

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	tokenSourceSeparatorConstant               = ":"
	environmentTokenSourceTypeValueConstant    = "env"
	fileTokenSourceTypeValueConstant           = "file"
	environmentNameMissingErrorMessageConstant = "environment variable name must be provided"
	filePathMissingErrorMessageConstant        = "token file path must be provided"
	environmentTokenMissingTemplateConstant    = "environment variable %s is not set"
	fileReadErrorTemplateConstant              = "unable to read token file %s: %w"
	fileTokenEmptyErrorTemplateConstant        = "token file %s is empty"
	unsupportedTokenSourceTemplateConstant     = "unsupported token source type %q"
)

// Environment variables consulted when no explicit token source is configured.
const (
	EnvHubToken       = "HF_TOKEN"
	EnvLegacyHubToken = "HUGGING_FACE_HUB_TOKEN"
	EnvHubEndpoint    = "HF_ENDPOINT"
)

var defaultTokenEnvironmentPreference = []string{
	EnvHubToken,
	EnvLegacyHubToken,
}

// TokenSourceType enumerates the supported token retrieval mechanisms.
type TokenSourceType string

// Token source type enumerations.
const (
	TokenSourceTypeDefault     TokenSourceType = ""
	TokenSourceTypeEnvironment TokenSourceType = TokenSourceType(environmentTokenSourceTypeValueConstant)
	TokenSourceTypeFile        TokenSourceType = TokenSourceType(fileTokenSourceTypeValueConstant)
)

// TokenSourceConfiguration specifies how to locate a hub access token.
type TokenSourceConfiguration struct {
	Type      TokenSourceType
	Reference string
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// TokenResolver retrieves access tokens from configured sources.
type TokenResolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
}

// NewTokenResolver creates a token resolver with optional dependency overrides.
func NewTokenResolver(environmentLookup EnvironmentLookup, fileReader FileReader) *TokenResolver {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	return &TokenResolver{environmentLookup: environmentLookup, fileReader: fileReader}
}

// ParseTokenSource interprets textual token source declarations. An empty
// value selects the default environment lookup; a bare name is treated as an
// environment variable.
func ParseTokenSource(sourceValue string) (TokenSourceConfiguration, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return TokenSourceConfiguration{Type: TokenSourceTypeDefault}, nil
	}

	components := strings.SplitN(trimmedValue, tokenSourceSeparatorConstant, 2)
	if len(components) == 1 {
		return TokenSourceConfiguration{Type: TokenSourceTypeEnvironment, Reference: trimmedValue}, nil
	}

	sourceType := strings.ToLower(strings.TrimSpace(components[0]))
	reference := strings.TrimSpace(components[1])

	switch sourceType {
	case environmentTokenSourceTypeValueConstant:
		if len(reference) == 0 {
			return TokenSourceConfiguration{}, errors.New(environmentNameMissingErrorMessageConstant)
		}
		return TokenSourceConfiguration{Type: TokenSourceTypeEnvironment, Reference: reference}, nil
	case fileTokenSourceTypeValueConstant:
		if len(reference) == 0 {
			return TokenSourceConfiguration{}, errors.New(filePathMissingErrorMessageConstant)
		}
		return TokenSourceConfiguration{Type: TokenSourceTypeFile, Reference: reference}, nil
	default:
		return TokenSourceConfiguration{}, fmt.Errorf(unsupportedTokenSourceTemplateConstant, sourceType)
	}
}

// ResolveToken returns the token for the source. The default source yields an
// empty token when none of the standard variables is set, since public
// repositories need no credentials.
func (resolver *TokenResolver) ResolveToken(resolutionContext context.Context, source TokenSourceConfiguration) (string, error) {
	_ = resolutionContext
	switch source.Type {
	case TokenSourceTypeDefault:
		for _, environmentName := range defaultTokenEnvironmentPreference {
			if value, found := resolver.lookupNonEmpty(environmentName); found {
				return value, nil
			}
		}
		return "", nil
	case TokenSourceTypeEnvironment:
		value, found := resolver.lookupNonEmpty(source.Reference)
		if !found {
			return "", fmt.Errorf(environmentTokenMissingTemplateConstant, source.Reference)
		}
		return value, nil
	case TokenSourceTypeFile:
		contents, readError := resolver.fileReader(source.Reference)
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, source.Reference, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(fileTokenEmptyErrorTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	default:
		return "", fmt.Errorf(unsupportedTokenSourceTemplateConstant, source.Type)
	}
}

// ResolveEndpoint prefers the configured endpoint, then HF_ENDPOINT, then the public hub.
func (resolver *TokenResolver) ResolveEndpoint(configuredEndpoint string) string {
	trimmedEndpoint := strings.TrimSpace(configuredEndpoint)
	if len(trimmedEndpoint) > 0 {
		return trimmedEndpoint
	}
	if environmentEndpoint, found := resolver.lookupNonEmpty(EnvHubEndpoint); found {
		return environmentEndpoint
	}
	return DefaultEndpoint
}

func (resolver *TokenResolver) lookupNonEmpty(key string) (string, bool) {
	value, found := resolver.environmentLookup(key)
	if !found {
		return "", false
	}
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return "", false
	}
	return trimmedValue, true
}
