package scout

import (
	"context"
	"fmt"

	"github.com/nova0077/unravel-dspy/internal/llm"
)

// FounderResolutionStrategy turns web search evidence into a candidate
// list with at most one entry selected. Two variants exist and are chosen
// at composition time: the two-stage LLM pipeline (default) and the
// regex-heuristic fast path. They deliberately disagree on the matching
// rule — first/last-token versus whole-name "pr" — and are never merged.
type FounderResolutionStrategy interface {
	// FindFounders runs the pipeline to completion. The returned list is
	// always non-empty; absence is reported as a single sentinel entry,
	// not an error. An error means a configuration-level precondition
	// failed and nothing could run.
	FindFounders(ctx context.Context) ([]CandidateEntry, error)
}

// LLMStrategy is the two-stage pipeline: extract candidates per query
// corpus with one model call each, then select the PR founder with a
// second call, deterministically re-verified.
type LLMStrategy struct {
	agg     *Aggregator
	client  llm.Client
	cfg     *Config
	Session *Session
}

// NewLLMStrategy wires the default strategy.
func NewLLMStrategy(agg *Aggregator, client llm.Client, cfg *Config) *LLMStrategy {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &LLMStrategy{agg: agg, client: client, cfg: cfg}
}

// FindFounders runs Searching, Extracting, Resolving, Selecting, Done as
// strictly linear stages: all corpora are gathered before any extraction.
// A single corpus's extraction failure contributes no lines but never
// aborts the run; an everywhere-empty corpus still terminates in Done with
// the absence placeholder.
func (s *LLMStrategy) FindFounders(ctx context.Context) ([]CandidateEntry, error) {
	if len(s.cfg.Queries) == 0 {
		return nil, fmt.Errorf("no search queries configured")
	}

	session := NewSession()
	s.Session = session

	corpora := make([]string, 0, len(s.cfg.Queries))
	for _, query := range s.cfg.Queries {
		corpus := s.agg.Corpus(ctx, query)
		session.RecordCorpus(query, corpus)
		corpora = append(corpora, corpus)
	}

	session.Advance(StageExtracting)
	extractor := NewExtractor(s.client)

	var allLines []string
	for i, corpus := range corpora {
		lines, err := extractor.Extract(ctx, corpus)
		if err != nil {
			fmt.Printf("[scout] extraction failed for %q: %v\n", s.cfg.Queries[i], err)
			continue
		}
		allLines = append(allLines, lines...)
	}

	session.RawLines = DedupeLines(allLines)

	session.Advance(StageResolving)
	entries := Resolve(session.RawLines)

	if !entries[0].Absent() {
		session.Advance(StageSelecting)
		selector := NewSelector(s.client, s.cfg.EmailDomain)
		entries = selector.Select(ctx, entries)
	}

	session.Entries = entries
	session.Advance(StageDone)
	return entries, nil
}
