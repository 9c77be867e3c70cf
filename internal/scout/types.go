// Package scout discovers Unravel.tech founders from web search results and
// identifies the one with "pr" in their name. The pipeline runs four stages
// per run: search aggregation, LLM extraction, candidate resolution, and PR
// selection. Absence of a founder is a valid terminal outcome, represented
// structurally rather than as an error.
package scout

import "strings"

// CandidateEntry represents one person the extractor believed might be a
// founder. Name is empty when the entry is the absence sentinel: "no
// founder could be identified from this evidence". Only the PR selection
// stage may set Selected and Email.
type CandidateEntry struct {
	Name     string `json:"name"`
	Reason   string `json:"reason"`
	Email    string `json:"email,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// Absent reports whether the entry is the absence sentinel.
func (e CandidateEntry) Absent() bool {
	return e.Name == ""
}

// FirstName returns the first token of the entry's name.
func (e CandidateEntry) FirstName() string {
	fields := strings.Fields(e.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// DeriveEmail builds the outreach address for a first name. An empty
// domain falls back to unravel.tech. Every path that sets an email on a
// candidate (selection, heuristic fast path, recipient fallback) derives
// it through here.
func DeriveEmail(firstName, domain string) string {
	if domain == "" {
		domain = "unravel.tech"
	}
	return strings.ToLower(firstName) + "@" + domain
}

// Selected returns the selected entry from a result list, or nil.
func Selected(entries []CandidateEntry) *CandidateEntry {
	for i := range entries {
		if entries[i].Selected {
			return &entries[i]
		}
	}
	return nil
}

// Config holds the immutable per-run configuration for the pipeline. It is
// passed in at construction time; the pipeline never reads package-level
// mutable state, so parallel test runs can use different configurations.
type Config struct {
	// Queries is the fixed ordered list of search queries per run.
	Queries []string
	// SearchEndpoint is the search-engine URL template; the query is
	// appended URL-escaped.
	SearchEndpoint string
	// MaxResultLinks bounds how many top result links are followed per
	// query.
	MaxResultLinks int
	// MaxCorpusChars caps the normalized text gathered per query, which
	// bounds prompt size downstream.
	MaxCorpusChars int
	// MaxRawChars caps raw tag-stripped text on the markup fallback path.
	// The budget is fixed regardless of query count.
	MaxRawChars int
	// EmailDomain is the domain appended to a selected founder's first
	// name.
	EmailDomain string
	// Blocklist contains capitalized non-name words filtered from regex
	// name extraction by the heuristic strategy.
	Blocklist map[string]bool
}

// DefaultQueries returns the standard founder search queries.
func DefaultQueries() []string {
	return []string{
		"founder names of unravel tech company, location Pune maharashtra",
		"unravel.tech founding team Pune",
	}
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		Queries:        DefaultQueries(),
		SearchEndpoint: "https://html.duckduckgo.com/html/?q=",
		MaxResultLinks: 2,
		MaxCorpusChars: 6000,
		MaxRawChars:    4000,
		EmailDomain:    "unravel.tech",
		Blocklist:      DefaultBlocklist(),
	}
}
