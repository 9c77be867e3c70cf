package scout

import (
	"context"
	"fmt"
	"strings"

	"github.com/nova0077/unravel-dspy/internal/llm"
	"github.com/nova0077/unravel-dspy/internal/prompts"
)

// Selector runs the second model call: given resolved candidates, pick the
// one whose first or last name contains "pr". The model's claim is never
// trusted alone — smaller models have returned confident false positives —
// so every answer is re-verified deterministically before an entry is
// marked selected.
type Selector struct {
	client      llm.Client
	emailDomain string
}

// NewSelector creates a PR selector over an LLM client.
func NewSelector(client llm.Client, emailDomain string) *Selector {
	if emailDomain == "" {
		emailDomain = "unravel.tech"
	}
	return &Selector{client: client, emailDomain: emailDomain}
}

// Select returns the same entries with at most one now marked selected and
// carrying a derived email address. A model failure or an unverifiable
// answer leaves all entries unselected; it never aborts the run.
func (s *Selector) Select(ctx context.Context, entries []CandidateEntry) []CandidateEntry {
	block := CandidatesBlock(entries)
	if block == "" {
		return entries
	}

	template := prompts.MustGet("scout.json", "select-pr-founder")
	prompt := prompts.Format(template, map[string]string{"Candidates": block})

	answer, err := llm.GenerateWithFallback(ctx, s.client, prompt, llm.TierLite)
	if err != nil {
		fmt.Printf("[scout] PR selection call failed: %v\n", err)
		return entries
	}

	return ApplyAnswer(entries, answer, s.emailDomain)
}

// CandidatesBlock renders the populated entries as "Name :: Reason" lines
// for the selection prompt. Absence entries are excluded.
func CandidatesBlock(entries []CandidateEntry) string {
	var lines []string
	for _, e := range entries {
		if e.Absent() {
			continue
		}
		lines = append(lines, e.Name+" :: "+e.Reason)
	}
	return strings.Join(lines, "\n")
}

// ApplyAnswer maps a model answer back onto the entries. The answer may be
// multi-line or hallucinated, so each candidate token is independently
// verified against the "pr" first-or-last-name rule before any entry is
// touched; the first token that verifies and structurally matches an entry
// wins, and matching stops there. No entry is ever selected twice.
func ApplyAnswer(entries []CandidateEntry, answer, emailDomain string) []CandidateEntry {
	answer = strings.TrimSpace(answer)
	if answer == "" || strings.EqualFold(answer, "none") {
		return entries
	}

	for _, token := range llm.Lines(answer) {
		if !HasPRNameParts(token) {
			fmt.Printf("[scout] rejected model answer %q: no 'pr' in first or last name\n", token)
			continue
		}

		idx := matchEntry(entries, token)
		if idx < 0 {
			continue
		}

		firstWord := strings.Fields(token)[0]
		entries[idx].Selected = true
		entries[idx].Email = DeriveEmail(firstWord, emailDomain)
		return entries
	}

	fmt.Printf("[scout] could not resolve model answer to a candidate: %q\n", answer)
	return entries
}

// matchEntry finds the first entry whose full name's first word equals the
// token or whose full name contains the token as a substring, both
// case-insensitive. Returns -1 when nothing matches.
func matchEntry(entries []CandidateEntry, token string) int {
	lowerToken := strings.ToLower(token)
	for i, e := range entries {
		if e.Absent() {
			continue
		}
		if strings.EqualFold(e.FirstName(), token) {
			return i
		}
		if strings.Contains(strings.ToLower(e.Name), lowerToken) {
			return i
		}
	}
	return -1
}
