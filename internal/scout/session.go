package scout

import (
	"time"

	"github.com/google/uuid"
)

// Stage identifies where a pipeline run currently is. Runs advance
// linearly with no retries across stages; Done is terminal whether or not
// a founder was found.
type Stage string

// Pipeline stages, in order.
const (
	StageSearching  Stage = "searching"
	StageExtracting Stage = "extracting"
	StageResolving  Stage = "resolving"
	StageSelecting  Stage = "selecting"
	StageDone       Stage = "done"
)

// CorpusRecord captures the text gathered for one query, for artifact
// output and debugging.
type CorpusRecord struct {
	Query string `json:"query"`
	Chars int    `json:"chars"`
}

// Session tracks one pipeline run: its stage, the queries it issued, and
// the lines the extractor produced. It is a record, not a coordinator —
// the strategy drives the stages.
type Session struct {
	RunID     uuid.UUID        `json:"run_id"`
	Stage     Stage            `json:"stage"`
	StartedAt time.Time        `json:"started_at"`
	Corpora   []CorpusRecord   `json:"corpora"`
	RawLines  []string         `json:"raw_lines"`
	Entries   []CandidateEntry `json:"entries"`
}

// NewSession starts a run record in the searching stage.
func NewSession() *Session {
	return &Session{
		RunID:     uuid.New(),
		Stage:     StageSearching,
		StartedAt: time.Now().UTC(),
	}
}

// Advance moves the session to the given stage.
func (s *Session) Advance(stage Stage) {
	s.Stage = stage
}

// RecordCorpus notes the corpus gathered for one query.
func (s *Session) RecordCorpus(query, corpus string) {
	s.Corpora = append(s.Corpora, CorpusRecord{Query: query, Chars: len(corpus)})
}
