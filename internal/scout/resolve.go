package scout

import "strings"

// negationPhrases mark a separator-less line as an absence statement
// rather than a name. Smaller models sometimes answer in prose instead of
// the requested grammar.
var negationPhrases = []string{"does not", "no information", "not explicitly"}

// defaultAbsenceReason is used when no discarded line carried a reason.
const defaultAbsenceReason = "No founders could be identified from the gathered search results."

// Resolve parses deduplicated extractor lines into candidate entries. The
// parser is tolerant: it never fails on malformed input, and truthfulness
// checks (the "pr" verification) belong to the selection stage, not here.
//
// Per line: text before the first "::" is the name, text after is the
// reason; a name of "none" (any case) marks absence. A line without the
// separator is a bare name unless it reads like a negation, in which case
// the whole line becomes the absence reason.
//
// Entries with populated names are kept. Absence-marked entries are
// discarded unless every entry is absent, in which case exactly one
// placeholder entry is returned carrying the first discarded reason. The
// result is always non-empty, and parsing the same input twice yields
// identical results.
func Resolve(lines []string) []CandidateEntry {
	var entries []CandidateEntry
	var discardedReasons []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if idx := strings.Index(line, "::"); idx >= 0 {
			name := strings.TrimSpace(line[:idx])
			reason := strings.TrimSpace(line[idx+2:])
			if strings.EqualFold(name, "none") {
				discardedReasons = append(discardedReasons, reason)
				continue
			}
			entries = append(entries, CandidateEntry{Name: name, Reason: reason})
			continue
		}

		if isNegation(line) {
			discardedReasons = append(discardedReasons, line)
			continue
		}
		entries = append(entries, CandidateEntry{Name: line, Reason: "named in search results"})
	}

	if len(entries) == 0 {
		reason := defaultAbsenceReason
		if len(discardedReasons) > 0 && discardedReasons[0] != "" {
			reason = discardedReasons[0]
		}
		return []CandidateEntry{{Reason: reason}}
	}

	return entries
}

func isNegation(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range negationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
