// Package flags formats and validates enumerated command-line flag values.
package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefixConstant   = "<"
	choicePlaceholderSuffixConstant   = ">"
	choiceSeparatorConstant           = "|"
	choiceListSeparatorConstant       = ", "
	choiceUsageTemplateConstant       = "%s `%s`"
	unsupportedChoiceTemplateConstant = "unsupported %s %q (expected one of %s)"
)

// FormatChoiceUsage appends a placeholder listing the choices to description,
// with the default choice upper-cased: "Log format `<STRUCTURED|console>`".
func FormatChoiceUsage(description string, defaultChoice string, choices []string) string {
	placeholder := choicePlaceholderPrefixConstant + strings.Join(highlightDefault(defaultChoice, choices), choiceSeparatorConstant) + choicePlaceholderSuffixConstant
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return "`" + placeholder + "`"
	}
	return fmt.Sprintf(choiceUsageTemplateConstant, trimmedDescription, placeholder)
}

// NormalizeChoice matches value case-insensitively against choices and returns
// the canonical spelling. An empty value yields an empty result without error.
func NormalizeChoice(subject string, value string, choices []string) (string, error) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return "", nil
	}
	for _, choice := range choices {
		if strings.EqualFold(trimmedValue, choice) {
			return choice, nil
		}
	}
	return "", fmt.Errorf(unsupportedChoiceTemplateConstant, subject, trimmedValue, strings.Join(choices, choiceListSeparatorConstant))
}

func highlightDefault(defaultChoice string, choices []string) []string {
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, duplicate := seen[normalizedChoice]; duplicate {
			continue
		}
		seen[normalizedChoice] = struct{}{}

		if strings.EqualFold(normalizedChoice, strings.TrimSpace(defaultChoice)) {
			highlighted = append(highlighted, strings.ToUpper(normalizedChoice))
			continue
		}
		highlighted = append(highlighted, normalizedChoice)
	}
	return highlighted
}
