// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanFences removes markdown code block wrappers from a response. Models
// often wrap output in ``` blocks even when instructed not to.
func CleanFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the opening fence line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := strings.TrimSpace(text[:idx])
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	return strings.TrimSpace(text)
}

// Lines splits a response into trimmed, non-empty lines after removing
// code fences.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(CleanFences(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
