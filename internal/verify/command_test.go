package verify_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/hubverify/internal/hub"
	"github.com/temirov/hubverify/internal/verify"
	pathutils "github.com/temirov/hubverify/internal/utils/path"
)

const (
	commandRootConstant          = "/registry"
	commandFolderConstant        = "adapters"
	commandReportPathConstant    = "/out/report.txt"
	commandHomeDirectoryConstant = "/home/verifier"
)

type commandHarness struct {
	fileSystem afero.Fs
	client     *fakeHubClient
	standard   *bytes.Buffer
	progress   *bytes.Buffer
	logs       *observer.ObservedLogs
}

func newCommandHarness(testInstance *testing.T) *commandHarness {
	testInstance.Helper()
	fileSystem := afero.NewMemMapFs()
	fixtures := []manifestFixture{
		{name: "absent", versions: []string{"v1"}},
		{name: testAdapterNameConstant, defaultVersion: "v1", versions: []string{"v1"}},
	}
	for _, fixture := range fixtures {
		path := commandRootConstant + "/" + commandFolderConstant + "/" + fixture.name + ".yaml"
		require.NoError(testInstance, afero.WriteFile(fileSystem, path, []byte(fixture.content()), 0o644))
	}

	client := newFakeHubClient()
	client.addRepository(testRepositoryConstant, map[string][]string{"v1": adapterFiles, mainRevisionConstant: adapterFiles})

	return &commandHarness{
		fileSystem: fileSystem,
		client:     client,
		standard:   &bytes.Buffer{},
		progress:   &bytes.Buffer{},
	}
}

func (harness *commandHarness) execute(testInstance *testing.T, configuration verify.CommandConfiguration, hubClient verify.HubClient, arguments ...string) error {
	testInstance.Helper()
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	harness.logs = observedLogs

	builder := verify.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.New(observedCore)
		},
		ConfigurationProvider: func() verify.CommandConfiguration {
			return configuration
		},
		HubClient:  hubClient,
		FileSystem: harness.fileSystem,
		EnvironmentLookup: func(string) (string, bool) {
			return "", false
		},
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) {
			return commandHomeDirectoryConstant, nil
		}),
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs(arguments)
	command.SetOut(harness.standard)
	command.SetErr(harness.progress)
	return command.Execute()
}

func (harness *commandHarness) report(testInstance *testing.T, path string) string {
	testInstance.Helper()
	contents, readError := afero.ReadFile(harness.fileSystem, path)
	require.NoError(testInstance, readError)
	return string(contents)
}

func TestCommandRunScenarios(testInstance *testing.T) {
	absentPath := commandRootConstant + "/" + commandFolderConstant + "/absent.yaml"
	testCases := []struct {
		name               string
		configuration      verify.CommandConfiguration
		arguments          []string
		expectedReportPath string
		expectedReport     string
		expectedRepository string
	}{
		{
			name:               "positional_folder_with_flag_overrides",
			configuration:      verify.DefaultCommandConfiguration(),
			arguments:          []string{"--root", commandRootConstant, "--report", commandReportPathConstant, commandFolderConstant},
			expectedReportPath: commandReportPathConstant,
			expectedReport:     absentPath + "\tRepo does not exist.",
			expectedRepository: "AdapterHub/absent",
		},
		{
			name: "configured_folder_and_organization",
			configuration: verify.CommandConfiguration{
				Organization: "adapter-mirror",
				ReportPath:   commandReportPathConstant,
				Root:         commandRootConstant,
				Folder:       commandFolderConstant,
				Pattern:      "*.yaml",
			},
			arguments:          nil,
			expectedReportPath: commandReportPathConstant,
			expectedReport:     absentPath + "\tRepo does not exist.\n" + commandRootConstant + "/" + commandFolderConstant + "/my-adapter.yaml\tRepo does not exist.",
			expectedRepository: "adapter-mirror/absent",
		},
		{
			name:               "organization_flag_wins_over_configuration",
			configuration:      verify.CommandConfiguration{Organization: "adapter-mirror", Root: commandRootConstant},
			arguments:          []string{"--org", testOrganizationConstant, "--report", "~/reports/verify.txt", "--concurrency", "2", commandFolderConstant},
			expectedReportPath: commandHomeDirectoryConstant + "/reports/verify.txt",
			expectedReport:     absentPath + "\tRepo does not exist.",
			expectedRepository: "AdapterHub/absent",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			harness := newCommandHarness(testInstance)
			executionError := harness.execute(testInstance, testCase.configuration, harness.client, testCase.arguments...)
			require.NoError(testInstance, executionError)

			require.Equal(testInstance, testCase.expectedReport, harness.report(testInstance, testCase.expectedReportPath))
			require.Contains(testInstance, harness.client.repositoryQueries, testCase.expectedRepository)
			require.Contains(testInstance, harness.standard.String(), "Verified 2 manifests")
			require.Contains(testInstance, harness.progress.String(), "Verifying files: 2/2")
			require.Len(testInstance, harness.logs.FilterMessage("Manifests discovered").All(), 1)
		})
	}
}

func TestCommandRejectsInvalidInvocations(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedMessage string
	}{
		{name: "missing_folder", arguments: nil, expectedMessage: "manifest folder must be provided"},
		{name: "too_many_folders", arguments: []string{"one", "two"}, expectedMessage: "verify accepts at most one manifest folder"},
		{name: "absent_folder", arguments: []string{"--root", commandRootConstant, "missing"}, expectedMessage: "unable to discover manifests"},
		{name: "invalid_token_source", arguments: []string{"--root", commandRootConstant, "--token-source", "vault:hub", commandFolderConstant}, expectedMessage: "invalid token source"},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			harness := newCommandHarness(testInstance)
			executionError := harness.execute(testInstance, verify.DefaultCommandConfiguration(), nil, testCase.arguments...)
			require.Error(testInstance, executionError)
			require.Contains(testInstance, executionError.Error(), testCase.expectedMessage)
		})
	}
}

func TestCommandRecordsDirectoryInManifestFolder(testInstance *testing.T) {
	harness := newCommandHarness(testInstance)
	folderPath := commandRootConstant + "/" + commandFolderConstant
	require.NoError(testInstance, harness.fileSystem.MkdirAll(folderPath+"/archive", 0o755))

	executionError := harness.execute(
		testInstance,
		verify.DefaultCommandConfiguration(),
		harness.client,
		"--root", commandRootConstant,
		"--report", commandReportPathConstant,
		commandFolderConstant,
	)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance,
		folderPath+"/absent.yaml\tRepo does not exist.\n"+
			folderPath+"/archive\tunable to read manifest: manifest path is a directory",
		harness.report(testInstance, commandReportPathConstant),
	)
	require.Contains(testInstance, harness.standard.String(), "Verified 3 manifests: 2 errors")
}

func TestCommandVerifiesAgainstHubServer(testInstance *testing.T) {
	var mutex sync.Mutex
	var authorizations []string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		mutex.Lock()
		authorizations = append(authorizations, request.Header.Get("Authorization"))
		mutex.Unlock()

		switch {
		case request.URL.Path == "/api/models/AdapterHub/my-adapter":
			writer.WriteHeader(http.StatusOK)
		case strings.HasPrefix(request.URL.Path, "/AdapterHub/my-adapter/resolve/"):
			if strings.HasSuffix(request.URL.Path, "/main/README.md") {
				writer.WriteHeader(http.StatusNotFound)
				return
			}
			writer.WriteHeader(http.StatusOK)
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	harness := newCommandHarness(testInstance)
	require.NoError(testInstance, afero.WriteFile(harness.fileSystem, "/secrets/hub-token", []byte("hf_file_token\n"), 0o600))

	executionError := harness.execute(
		testInstance,
		verify.DefaultCommandConfiguration(),
		nil,
		"--root", commandRootConstant,
		"--report", commandReportPathConstant,
		"--endpoint", server.URL,
		"--token-source", "file:/secrets/hub-token",
		commandFolderConstant,
	)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance,
		commandRootConstant+"/"+commandFolderConstant+"/absent.yaml\tRepo does not exist.\n"+
			commandRootConstant+"/"+commandFolderConstant+"/my-adapter.yaml\tFile README.md not found in version main",
		harness.report(testInstance, commandReportPathConstant),
	)

	mutex.Lock()
	defer mutex.Unlock()
	require.NotEmpty(testInstance, authorizations)
	for _, authorization := range authorizations {
		require.Equal(testInstance, "Bearer hf_file_token", authorization)
	}
}

func TestCommandConfigurationDefaults(testInstance *testing.T) {
	require.Equal(testInstance, map[string]any{
		"tools.verify.org":         "AdapterHub",
		"tools.verify.report_path": "verify_errors.txt",
		"tools.verify.root":        ".",
		"tools.verify.folder":      "",
		"tools.verify.pattern":     "*",
		"tools.verify.concurrency": 1,
	}, verify.DefaultConfigurationValues("tools.verify"))

	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return commandHomeDirectoryConstant, nil
	})
	sanitized := verify.CommandConfiguration{Organization: "  ", Root: "~/registry", Folder: " adapters ", Concurrency: -3}.Sanitize(expander)
	require.Equal(testInstance, verify.CommandConfiguration{
		Organization: verify.DefaultOrganizationName,
		ReportPath:   verify.DefaultReportPath,
		Root:         commandHomeDirectoryConstant + "/registry",
		Folder:       "adapters",
		Pattern:      "*",
		Concurrency:  1,
	}, sanitized)

	require.Equal(testInstance, hub.DefaultTimeout, hub.DefaultConfiguration().Timeout)
}
