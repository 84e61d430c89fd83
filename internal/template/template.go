// Package template implements the {{key}} placeholder substitution used for
// personalizing campaign messages.
package template

import (
	"fmt"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render replaces every {{key}} placeholder that has a matching key in data
// with the stringified value. Placeholders with no matching key are left
// untouched, so rendering is idempotent on inputs with no matching keys.
// An empty template passes through unchanged.
func Render(tmpl string, data map[string]any) string {
	if tmpl == "" {
		return tmpl
	}

	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := match[2 : len(match)-2]
		if value, ok := data[key]; ok {
			return fmt.Sprint(value)
		}
		// Unknown placeholder - preserve it verbatim
		return match
	})
}

// Merge builds the effective substitution mapping for one recipient: global
// keys are copied first, then overwritten by per-recipient keys (recipient
// wins on collision). Neither input is mutated.
func Merge(global, recipient map[string]any) map[string]any {
	merged := make(map[string]any, len(global)+len(recipient))
	for k, v := range global {
		merged[k] = v
	}
	for k, v := range recipient {
		merged[k] = v
	}
	return merged
}

// Placeholders returns the distinct placeholder keys found in the template,
// in order of first appearance.
func Placeholders(tmpl string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(tmpl, -1)
	seen := make(map[string]bool, len(matches))
	keys := make([]string, 0, len(matches))

	for _, match := range matches {
		if len(match) > 1 && !seen[match[1]] {
			seen[match[1]] = true
			keys = append(keys, match[1])
		}
	}

	return keys
}
