package scout

import (
	"context"
	"fmt"
	"strings"

	"github.com/nova0077/unravel-dspy/internal/llm"
	"github.com/nova0077/unravel-dspy/internal/prompts"
)

// HeuristicStrategy is the earlier pipeline variant: regex name extraction
// over the combined corpus, a deterministic whole-name "pr" fast path, and
// a model call only when the fast path is inconclusive. It checks "pr"
// against the whole name, not just first/last tokens — that divergence
// from LLMStrategy is intentional and preserved.
type HeuristicStrategy struct {
	agg    *Aggregator
	client llm.Client
	cfg    *Config
}

// NewHeuristicStrategy wires the regex-first strategy.
func NewHeuristicStrategy(agg *Aggregator, client llm.Client, cfg *Config) *HeuristicStrategy {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &HeuristicStrategy{agg: agg, client: client, cfg: cfg}
}

// FindFounders gathers one combined corpus, extracts Title-Cased names
// through the blocklist, and picks the first name containing "pr". When no
// extracted name matches, the model is consulted over the name list; its
// answer is still re-verified deterministically, and an unverifiable
// answer yields an unselected candidate list rather than a false positive.
func (h *HeuristicStrategy) FindFounders(ctx context.Context) ([]CandidateEntry, error) {
	if len(h.cfg.Queries) == 0 {
		return nil, fmt.Errorf("no search queries configured")
	}

	var sections []string
	for _, query := range h.cfg.Queries {
		if corpus := h.agg.Corpus(ctx, query); corpus != "" {
			sections = append(sections, corpus)
		}
	}
	combined := strings.Join(sections, "\n\n")

	names := ExtractNames(combined, h.cfg.Blocklist)
	fmt.Printf("[scout] extracted %d candidate names\n", len(names))

	entries := make([]CandidateEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, CandidateEntry{Name: name, Reason: "extracted from search results"})
	}
	if len(entries) == 0 {
		return []CandidateEntry{{Reason: defaultAbsenceReason}}, nil
	}

	// Fast path: deterministic whole-name substring check. The blocklist
	// already filtered non-person words, so the first match is a person.
	for i, e := range entries {
		if HasPR(e.Name) {
			entries[i].Selected = true
			entries[i].Email = DeriveEmail(e.FirstName(), h.cfg.EmailDomain)
			entries[i].Reason = fmt.Sprintf("deterministic fast-path: %q contains 'pr' as consecutive letters", e.Name)
			fmt.Printf("[scout] fast-path identified: %s\n", e.FirstName())
			return entries, nil
		}
	}

	// Fallback: ask the model, then verify its claim before trusting it.
	answer, err := h.identifyViaModel(ctx, names)
	if err != nil {
		fmt.Printf("[scout] model fallback failed: %v\n", err)
		return entries, nil
	}

	firstName := strings.ToLower(answer)
	if !HasPR(firstName) {
		fmt.Printf("[scout] warning: model picked %q which does not contain 'pr'; leaving unselected\n", answer)
		return entries, nil
	}

	for i, e := range entries {
		if strings.EqualFold(e.FirstName(), answer) || strings.Contains(strings.ToLower(e.Name), firstName) {
			entries[i].Selected = true
			entries[i].Email = DeriveEmail(answer, h.cfg.EmailDomain)
			entries[i].Reason = "identified by model fallback"
			break
		}
	}
	return entries, nil
}

func (h *HeuristicStrategy) identifyViaModel(ctx context.Context, names []string) (string, error) {
	template := prompts.MustGet("scout.json", "identify-founder")
	prompt := prompts.Format(template, map[string]string{
		"People": strings.Join(names, "\n"),
	})

	response, err := llm.GenerateWithFallback(ctx, h.client, prompt, llm.TierLite)
	if err != nil {
		return "", err
	}

	lines := llm.Lines(response)
	if len(lines) == 0 {
		return "", fmt.Errorf("empty model answer")
	}
	fields := strings.Fields(lines[0])
	if len(fields) == 0 {
		return "", fmt.Errorf("blank model answer")
	}
	return fields[0], nil
}
