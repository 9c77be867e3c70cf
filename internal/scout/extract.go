package scout

import (
	"context"
	"fmt"
	"strings"

	"github.com/nova0077/unravel-dspy/internal/llm"
	"github.com/nova0077/unravel-dspy/internal/prompts"
)

// Extractor asks a language model to pull founder names out of one text
// corpus, constrained to a strict line grammar: either the single line
// "NONE :: reason" or one "Full Name :: Reason" line per founder.
type Extractor struct {
	client llm.Client
}

// NewExtractor creates a founder extractor over an LLM client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract returns the raw response lines for one corpus. Transport and
// quota errors propagate; the caller treats them as "this corpus
// contributes no lines" rather than aborting the run.
func (e *Extractor) Extract(ctx context.Context, corpus string) ([]string, error) {
	if strings.TrimSpace(corpus) == "" {
		return nil, nil
	}

	template := prompts.MustGet("scout.json", "extract-founders")
	prompt := prompts.Format(template, map[string]string{"Corpus": corpus})

	response, err := llm.GenerateWithFallback(ctx, e.client, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("founder extraction failed: %w", err)
	}

	return llm.Lines(response), nil
}

// DedupeLines removes duplicate candidate lines case-insensitively while
// preserving first-seen order. Two lines are duplicates when their name
// portions (the text before "::", or the whole line without a separator)
// match ignoring case; the first occurrence's reason wins.
func DedupeLines(lines []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, line := range lines {
		key := line
		if idx := strings.Index(line, "::"); idx >= 0 {
			key = line[:idx]
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
	}
	return out
}
