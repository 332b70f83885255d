package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/hubverify/internal/adapters"
	"github.com/temirov/hubverify/internal/manifest"
	"github.com/temirov/hubverify/internal/utils"
)

const (
	progressLineTemplateConstant        = "Verifying files: %d/%d %s\n"
	errorLineTemplateConstant           = "Error verifying %s: %s\n"
	verificationStartedMessageConstant  = "Verification started"
	manifestFailedMessageConstant       = "Manifest verification failed"
	revisionCheckedMessageConstant      = "Revision checked"
	verificationFinishedMessageConstant = "Verification finished"
	runIdentifierFieldConstant          = "run_id"
	manifestFieldConstant               = "manifest"
	repositoryFieldConstant             = "repo_id"
	revisionFieldConstant               = "revision"
	completeFieldConstant               = "complete"
	organizationFieldConstant           = "org"
	manifestCountFieldConstant          = "manifests"
	errorCountFieldConstant             = "errors"
	concurrencyFieldConstant            = "concurrency"
	reportPathFieldConstant             = "report_path"
	messageWhitespaceSeparatorConstant  = " "
)

// Dependencies collects the collaborators required by a Verifier.
type Dependencies struct {
	Logger         *zap.Logger
	HubClient      HubClient
	ManifestLoader ManifestLoader
	ReportWriter   ReportWriter
	ProgressWriter io.Writer
}

// Options tunes a Verifier.
type Options struct {
	// Concurrency bounds in-flight manifests; values below one run sequentially.
	Concurrency int
}

// Verifier checks adapter manifests against the hub.
type Verifier struct {
	logger         *zap.Logger
	hubClient      HubClient
	manifestLoader ManifestLoader
	reportWriter   ReportWriter
	progressWriter io.Writer
	concurrency    int
}

// NewVerifier validates dependencies and constructs a Verifier.
func NewVerifier(dependencies Dependencies, options Options) (*Verifier, error) {
	if dependencies.HubClient == nil {
		return nil, ErrHubClientNotConfigured
	}
	if dependencies.ReportWriter == nil {
		return nil, ErrReportWriterNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	manifestLoader := dependencies.ManifestLoader
	if manifestLoader == nil {
		manifestLoader = manifest.NewLoader(nil)
	}

	progressWriter := dependencies.ProgressWriter
	if progressWriter == nil {
		progressWriter = io.Discard
	} else {
		progressWriter = utils.NewFlushingWriter(progressWriter)
	}

	concurrency := options.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Verifier{
		logger:         logger,
		hubClient:      dependencies.HubClient,
		manifestLoader: manifestLoader,
		reportWriter:   dependencies.ReportWriter,
		progressWriter: progressWriter,
		concurrency:    concurrency,
	}, nil
}

// CheckFilesExist checks the descriptor's required files at revision in order
// and stops at the first missing one. Errors from the hub are returned as-is.
func (verifier *Verifier) CheckFilesExist(executionContext context.Context, repositoryIdentifier string, descriptor manifest.AdapterDescriptor, revision string) (FileCheckResult, error) {
	for _, filename := range descriptor.RequiredFiles() {
		exists, existsError := verifier.hubClient.FileExists(executionContext, repositoryIdentifier, filename, revision)
		if existsError != nil {
			return FileCheckResult{Revision: revision}, existsError
		}
		if !exists {
			return FileCheckResult{Revision: revision, MissingFile: filename}, nil
		}
	}
	return FileCheckResult{Revision: revision, Complete: true}, nil
}

// VerifyAll verifies each manifest in order and rewrites the report after
// every manifest. Per-manifest failures are recorded and the run continues;
// report write failures and context cancellation stop the run and return the
// report accumulated so far.
func (verifier *Verifier) VerifyAll(executionContext context.Context, manifestPaths []string, organizationName string) (ErrorReport, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	trimmedOrganization := strings.TrimSpace(organizationName)
	if len(trimmedOrganization) == 0 {
		return ErrorReport{}, ErrOrganizationMissing
	}

	runLogger := verifier.logger.With(zap.String(runIdentifierFieldConstant, uuid.NewString()))
	runLogger.Info(
		verificationStartedMessageConstant,
		zap.String(organizationFieldConstant, trimmedOrganization),
		zap.Int(manifestCountFieldConstant, len(manifestPaths)),
		zap.Int(concurrencyFieldConstant, verifier.concurrency),
	)

	run := &verificationRun{
		verifier:      verifier,
		logger:        runLogger,
		manifestCount: len(manifestPaths),
		report:        ErrorReport{},
	}

	var runError error
	if verifier.concurrency > 1 && len(manifestPaths) > 1 {
		runError = run.executeConcurrently(executionContext, manifestPaths, trimmedOrganization)
	} else {
		runError = run.executeSequentially(executionContext, manifestPaths, trimmedOrganization)
	}

	runLogger.Info(
		verificationFinishedMessageConstant,
		zap.Int(manifestCountFieldConstant, run.committedCount),
		zap.Int(errorCountFieldConstant, len(run.report)),
		zap.String(reportPathFieldConstant, verifier.reportWriter.Path()),
		zap.Error(runError),
	)

	return run.report, runError
}

func (verifier *Verifier) verifyManifest(executionContext context.Context, logger *zap.Logger, manifestPath string, organizationName string) error {
	descriptor, loadError := verifier.manifestLoader.Load(manifestPath)
	if loadError != nil {
		return loadError
	}

	repositoryIdentifier := RepositoryIdentifier(organizationName, descriptor.AdapterName)
	repositoryExists, existsError := verifier.hubClient.RepoExists(executionContext, repositoryIdentifier)
	if existsError != nil {
		return existsError
	}
	if !repositoryExists {
		return RepoNotFoundError{RepositoryIdentifier: repositoryIdentifier}
	}

	for _, versionEntry := range descriptor.Versions {
		for _, revision := range revisionsForVersion(descriptor, versionEntry.Version) {
			if contextError := executionContext.Err(); contextError != nil {
				return contextError
			}

			checkResult, checkError := verifier.CheckFilesExist(executionContext, repositoryIdentifier, descriptor, revision)
			if checkError != nil {
				return checkError
			}

			logger.Debug(
				revisionCheckedMessageConstant,
				zap.String(repositoryFieldConstant, repositoryIdentifier),
				zap.String(revisionFieldConstant, revision),
				zap.Bool(completeFieldConstant, checkResult.Complete),
			)

			if !checkResult.Complete {
				return MissingFileError{Filename: checkResult.MissingFile, Revision: revision}
			}
		}
	}

	return nil
}

func revisionsForVersion(descriptor manifest.AdapterDescriptor, version string) []string {
	if descriptor.IsDefault(version) {
		return []string{version, adapters.MainRevision}
	}
	return []string{version}
}

type verificationRun struct {
	verifier       *Verifier
	logger         *zap.Logger
	manifestCount  int
	committedCount int
	report         ErrorReport
}

func (run *verificationRun) executeSequentially(executionContext context.Context, manifestPaths []string, organizationName string) error {
	for _, manifestPath := range manifestPaths {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		outcome := run.verifier.verifyManifest(executionContext, run.logger, manifestPath, organizationName)
		if commitError := run.commit(executionContext, manifestPath, outcome); commitError != nil {
			return commitError
		}
	}
	return nil
}

// executeConcurrently verifies manifests on a bounded worker group while
// committing outcomes strictly in input order.
func (run *verificationRun) executeConcurrently(executionContext context.Context, manifestPaths []string, organizationName string) error {
	workerContext, cancelWorkers := context.WithCancel(executionContext)

	outcomes := make([]chan error, len(manifestPaths))
	for manifestIndex := range outcomes {
		outcomes[manifestIndex] = make(chan error, 1)
	}

	var workerGroup errgroup.Group
	workerGroup.SetLimit(run.verifier.concurrency)

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		for manifestIndex, manifestPath := range manifestPaths {
			if workerContext.Err() != nil {
				return
			}
			outcome := outcomes[manifestIndex]
			path := manifestPath
			workerGroup.Go(func() error {
				outcome <- run.verifier.verifyManifest(workerContext, run.logger, path, organizationName)
				return nil
			})
		}
	}()

	defer func() {
		cancelWorkers()
		<-schedulerDone
		_ = workerGroup.Wait()
	}()

	for manifestIndex, manifestPath := range manifestPaths {
		received, outcome := awaitOutcome(executionContext, outcomes[manifestIndex])
		if !received {
			return executionContext.Err()
		}
		if commitError := run.commit(executionContext, manifestPath, outcome); commitError != nil {
			return commitError
		}
	}
	return nil
}

// awaitOutcome waits for a manifest outcome. An outcome already buffered is
// always taken, even when the context is done.
func awaitOutcome(executionContext context.Context, outcome <-chan error) (bool, error) {
	select {
	case result := <-outcome:
		return true, result
	default:
	}

	select {
	case result := <-outcome:
		return true, result
	case <-executionContext.Done():
		select {
		case result := <-outcome:
			return true, result
		default:
			return false, nil
		}
	}
}

func (run *verificationRun) commit(executionContext context.Context, manifestPath string, outcome error) error {
	if outcome != nil && executionContext.Err() != nil && (errors.Is(outcome, context.Canceled) || errors.Is(outcome, context.DeadlineExceeded)) {
		return executionContext.Err()
	}

	run.committedCount++
	_, _ = fmt.Fprintf(run.verifier.progressWriter, progressLineTemplateConstant, run.committedCount, run.manifestCount, manifestPath)

	if outcome != nil {
		message := singleLineMessage(outcome.Error())
		run.report = append(run.report, VerificationError{SourceFile: manifestPath, Message: message})
		_, _ = fmt.Fprintf(run.verifier.progressWriter, errorLineTemplateConstant, manifestPath, message)
		run.logger.Warn(manifestFailedMessageConstant, zap.String(manifestFieldConstant, manifestPath), zap.Error(outcome))
	}

	if writeError := run.verifier.reportWriter.WriteReport(run.report); writeError != nil {
		return ReportWriteError{Path: run.verifier.reportWriter.Path(), Cause: writeError}
	}
	return nil
}

// singleLineMessage collapses whitespace runs so each report entry stays on one line.
func singleLineMessage(message string) string {
	return strings.Join(strings.Fields(message), messageWhitespaceSeparatorConstant)
}
