package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubverify/internal/discovery"
	"github.com/temirov/hubverify/internal/hub"
	"github.com/temirov/hubverify/internal/manifest"
	"github.com/temirov/hubverify/internal/utils"
	pathutils "github.com/temirov/hubverify/internal/utils/path"
)

const (
	commandUseConstant                    = "verify [folder]"
	commandShortDescriptionConstant       = "Verify migrated adapters are complete on the model hub"
	commandLongDescriptionConstant        = "verify reads adapter manifests from a registry folder and checks that every listed version, and main for the default version, carries the required files on the hub. Failures are written to a report file after each manifest."
	commandExecutionErrorTemplateConstant = "verification failed: %w"
	tokenSourceParseErrorTemplateConstant = "invalid token source: %w"
	tokenResolutionErrorTemplateConstant  = "unable to resolve hub token: %w"
	hubClientErrorTemplateConstant        = "unable to configure hub client: %w"
	discoveryErrorTemplateConstant        = "unable to discover manifests: %w"
	summaryTemplateConstant               = "Verified %d manifests: %d errors written to %s\n"
	tooManyArgumentsMessageConstant       = "verify accepts at most one manifest folder"
	manifestsDiscoveredMessageConstant    = "Manifests discovered"
	hubClientConfiguredMessageConstant    = "Hub client configured"
	folderLogFieldConstant                = "folder"
	patternLogFieldConstant               = "pattern"
	endpointLogFieldConstant              = "endpoint"
	configurationFileLogFieldConstant     = "config_file"
	flagOrganizationNameConstant          = "org"
	flagOrganizationDescriptionConstant   = "Hub organization that owns the migrated adapters"
	flagReportNameConstant                = "report"
	flagReportDescriptionConstant         = "Path of the error report rewritten after each manifest"
	flagRootNameConstant                  = "root"
	flagRootDescriptionConstant           = "Registry root the manifest folder is resolved against"
	flagPatternNameConstant               = "pattern"
	flagPatternDescriptionConstant        = "Glob pattern selecting manifest files inside the folder"
	flagConcurrencyNameConstant           = "concurrency"
	flagConcurrencyDescriptionConstant    = "Number of manifests verified in parallel"
	flagEndpointNameConstant              = "endpoint"
	flagEndpointDescriptionConstant       = "Hub base URL (defaults to HF_ENDPOINT or https://huggingface.co)"
	flagTokenSourceNameConstant           = "token-source"
	flagTokenSourceDescriptionConstant    = "Token source declaration (env:NAME or file:PATH)"
	flagTimeoutNameConstant               = "timeout"
	flagTimeoutDescriptionConstant        = "Timeout applied to each hub request"
)

var errTooManyArguments = errors.New(tooManyArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the verify command configuration.
type ConfigurationProvider func() CommandConfiguration

// HubConfigurationProvider returns the hub access configuration.
type HubConfigurationProvider func() hub.Configuration

// CommandBuilder assembles the verify Cobra command.
type CommandBuilder struct {
	LoggerProvider           LoggerProvider
	ConfigurationProvider    ConfigurationProvider
	HubConfigurationProvider HubConfigurationProvider
	HubClient                HubClient
	HTTPClient               hub.HTTPClient
	FileSystem               afero.Fs
	EnvironmentLookup        hub.EnvironmentLookup
	HomeExpander             *pathutils.HomeExpander
}

type commandOptions struct {
	verification CommandConfiguration
	hub          hub.Configuration
}

// Build constructs the verify command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(flagOrganizationNameConstant, "", flagOrganizationDescriptionConstant)
	command.Flags().String(flagReportNameConstant, "", flagReportDescriptionConstant)
	command.Flags().String(flagRootNameConstant, "", flagRootDescriptionConstant)
	command.Flags().String(flagPatternNameConstant, "", flagPatternDescriptionConstant)
	command.Flags().Int(flagConcurrencyNameConstant, defaults.Concurrency, flagConcurrencyDescriptionConstant)
	command.Flags().String(flagEndpointNameConstant, "", flagEndpointDescriptionConstant)
	command.Flags().String(flagTokenSourceNameConstant, "", flagTokenSourceDescriptionConstant)
	command.Flags().Duration(flagTimeoutNameConstant, hub.DefaultTimeout, flagTimeoutDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 1 {
		return errTooManyArguments
	}

	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	fileSystem := builder.resolveFileSystem()

	manifestPaths, discoveryError := discovery.NewManifestDiscoverer(fileSystem).DiscoverManifests(
		options.verification.Root,
		options.verification.Folder,
		options.verification.Pattern,
	)
	if discoveryError != nil {
		return fmt.Errorf(discoveryErrorTemplateConstant, discoveryError)
	}
	discoveryFields := []zap.Field{
		zap.String(folderLogFieldConstant, discovery.FolderPath(options.verification.Root, options.verification.Folder)),
		zap.String(patternLogFieldConstant, options.verification.Pattern),
		zap.Int(manifestCountFieldConstant, len(manifestPaths)),
	}
	if configurationFilePath, found := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); found {
		discoveryFields = append(discoveryFields, zap.String(configurationFileLogFieldConstant, configurationFilePath))
	}
	logger.Info(manifestsDiscoveredMessageConstant, discoveryFields...)

	hubClient, hubClientError := builder.resolveHubClient(command, logger, fileSystem, options.hub)
	if hubClientError != nil {
		return hubClientError
	}

	reportWriter := NewFileReportWriter(fileSystem, options.verification.ReportPath)
	verifier, verifierError := NewVerifier(Dependencies{
		Logger:         logger,
		HubClient:      hubClient,
		ManifestLoader: manifest.NewLoader(fileSystem),
		ReportWriter:   reportWriter,
		ProgressWriter: command.ErrOrStderr(),
	}, Options{Concurrency: options.verification.Concurrency})
	if verifierError != nil {
		return verifierError
	}

	report, verificationError := verifier.VerifyAll(command.Context(), manifestPaths, options.verification.Organization)
	if verificationError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, verificationError)
	}

	fmt.Fprintf(command.OutOrStdout(), summaryTemplateConstant, len(manifestPaths), len(report), reportWriter.Path())
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (commandOptions, error) {
	verification := builder.resolveConfiguration()
	hubConfiguration := builder.resolveHubConfiguration()

	if len(arguments) == 1 {
		verification.Folder = arguments[0]
	}

	stringOverrides := []struct {
		flagName string
		target   *string
	}{
		{flagName: flagOrganizationNameConstant, target: &verification.Organization},
		{flagName: flagReportNameConstant, target: &verification.ReportPath},
		{flagName: flagRootNameConstant, target: &verification.Root},
		{flagName: flagPatternNameConstant, target: &verification.Pattern},
		{flagName: flagEndpointNameConstant, target: &hubConfiguration.Endpoint},
		{flagName: flagTokenSourceNameConstant, target: &hubConfiguration.TokenSource},
	}
	for _, override := range stringOverrides {
		flagValue, flagError := command.Flags().GetString(override.flagName)
		if flagError != nil {
			return commandOptions{}, flagError
		}
		*override.target = selectStringValue(flagValue, *override.target)
	}

	if command.Flags().Changed(flagConcurrencyNameConstant) {
		concurrencyValue, concurrencyError := command.Flags().GetInt(flagConcurrencyNameConstant)
		if concurrencyError != nil {
			return commandOptions{}, concurrencyError
		}
		verification.Concurrency = concurrencyValue
	}

	if command.Flags().Changed(flagTimeoutNameConstant) {
		timeoutValue, timeoutError := command.Flags().GetDuration(flagTimeoutNameConstant)
		if timeoutError != nil {
			return commandOptions{}, timeoutError
		}
		hubConfiguration.Timeout = timeoutValue
	}

	verification = verification.Sanitize(builder.resolveHomeExpander())
	if len(verification.Folder) == 0 {
		return commandOptions{}, errors.New(manifestFolderMissingMessageConstant)
	}

	return commandOptions{verification: verification, hub: hubConfiguration.Sanitize()}, nil
}

func (builder *CommandBuilder) resolveHubClient(command *cobra.Command, logger *zap.Logger, fileSystem afero.Fs, configuration hub.Configuration) (HubClient, error) {
	if builder.HubClient != nil {
		return builder.HubClient, nil
	}

	tokenSource, tokenSourceError := hub.ParseTokenSource(configuration.TokenSource)
	if tokenSourceError != nil {
		return nil, fmt.Errorf(tokenSourceParseErrorTemplateConstant, tokenSourceError)
	}

	resolver := hub.NewTokenResolver(builder.EnvironmentLookup, func(path string) ([]byte, error) {
		return afero.ReadFile(fileSystem, path)
	})
	token, tokenError := resolver.ResolveToken(command.Context(), tokenSource)
	if tokenError != nil {
		return nil, fmt.Errorf(tokenResolutionErrorTemplateConstant, tokenError)
	}

	client, clientError := hub.NewClient(builder.HTTPClient, hub.ClientConfiguration{
		Endpoint: resolver.ResolveEndpoint(configuration.Endpoint),
		Token:    token,
		Timeout:  configuration.Timeout,
	})
	if clientError != nil {
		return nil, fmt.Errorf(hubClientErrorTemplateConstant, clientError)
	}

	logger.Debug(hubClientConfiguredMessageConstant, zap.String(endpointLogFieldConstant, client.Endpoint()))
	return client, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveHubConfiguration() hub.Configuration {
	if builder.HubConfigurationProvider == nil {
		return hub.DefaultConfiguration()
	}
	return builder.HubConfigurationProvider()
}

func (builder *CommandBuilder) resolveFileSystem() afero.Fs {
	if builder.FileSystem == nil {
		return afero.NewOsFs()
	}
	return builder.FileSystem
}

func (builder *CommandBuilder) resolveHomeExpander() *pathutils.HomeExpander {
	if builder.HomeExpander == nil {
		return pathutils.NewHomeExpander()
	}
	return builder.HomeExpander
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return configurationValue
}
