package flags_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hubverify/internal/utils/flags"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		description    string
		defaultChoice  string
		choices        []string
		expectedOutput string
	}{
		{
			name:           "default_first_choice",
			description:    "Log format",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			expectedOutput: "Log format `<STRUCTURED|console>`",
		},
		{
			name:           "default_later_choice",
			description:    "Log level",
			defaultChoice:  "info",
			choices:        []string{"debug", "info", "warn", "error"},
			expectedOutput: "Log level `<debug|INFO|warn|error>`",
		},
		{
			name:           "empty_description",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			expectedOutput: "`<structured|CONSOLE>`",
		},
		{
			name:           "duplicates_and_blanks_ignored",
			description:    "Log format",
			defaultChoice:  "console",
			choices:        []string{"Console", " ", "console", "structured"},
			expectedOutput: "Log format `<CONSOLE|structured>`",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, flags.FormatChoiceUsage(testCase.description, testCase.defaultChoice, testCase.choices))
		})
	}
}

func TestNormalizeChoice(testInstance *testing.T) {
	choices := []string{"structured", "console"}

	normalized, normalizeError := flags.NormalizeChoice("log format", " CONSOLE ", choices)
	require.NoError(testInstance, normalizeError)
	require.Equal(testInstance, "console", normalized)

	empty, emptyError := flags.NormalizeChoice("log format", "", choices)
	require.NoError(testInstance, emptyError)
	require.Empty(testInstance, empty)

	_, unsupportedError := flags.NormalizeChoice("log format", "xml", choices)
	require.EqualError(testInstance, unsupportedError, `unsupported log format "xml" (expected one of structured, console)`)
}
