package scout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova0077/unravel-dspy/internal/llm"
)

func singleQueryConfig() *Config {
	cfg := DefaultConfig()
	cfg.Queries = []string{"founder names of unravel tech"}
	return cfg
}

func TestLLMStrategy_NoQueriesIsAnError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Queries = nil
	strategy := NewLLMStrategy(nil, &fakeClient{}, cfg)

	_, err := strategy.FindFounders(context.Background())

	require.Error(t, err)
}

func TestLLMStrategy_HappyPath(t *testing.T) {
	provider := &fakeProvider{result: &SearchResult{
		Snippets: "Unravel was founded by Prajwalit Bhopale and Kedar Sovani.",
	}}
	agg := NewAggregator(provider, newTestFetcher(t), singleQueryConfig())

	client := &fakeClient{responses: []string{
		// extraction, then selection
		"Prajwalit Bhopale :: named co-founder\nKedar Sovani :: named co-founder",
		"Prajwalit",
	}}
	strategy := NewLLMStrategy(agg, client, singleQueryConfig())

	entries, err := strategy.FindFounders(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)

	selected := Selected(entries)
	require.NotNil(t, selected)
	assert.Equal(t, "Prajwalit Bhopale", selected.Name)
	assert.Equal(t, "prajwalit@unravel.tech", selected.Email)

	require.NotNil(t, strategy.Session)
	assert.Equal(t, StageDone, strategy.Session.Stage)
	require.Len(t, strategy.Session.Corpora, 1)
	assert.Equal(t, 2, client.callCount())
}

func TestLLMStrategy_EmptyCorporaEndInAbsence(t *testing.T) {
	provider := &fakeProvider{err: errors.New("search backend down")}
	agg := NewAggregator(provider, newTestFetcher(t), singleQueryConfig())

	client := &fakeClient{}
	strategy := NewLLMStrategy(agg, client, singleQueryConfig())

	entries, err := strategy.FindFounders(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Absent())
	assert.Equal(t, 0, client.callCount(), "empty corpora must not consume model calls")
	assert.Equal(t, StageDone, strategy.Session.Stage)
}

func TestLLMStrategy_ExtractionFailureContributesNothing(t *testing.T) {
	provider := &fakeProvider{result: &SearchResult{Snippets: "some snippet text"}}

	cfg := DefaultConfig()
	cfg.Queries = []string{"query one", "query two"}
	agg := NewAggregator(provider, newTestFetcher(t), cfg)

	client := &fakeClient{
		responses: []string{"", "Prajwalit Bhopale :: named co-founder", "Prajwalit"},
		errs:      []error{errors.New("quota exhausted on every tier"), nil, nil},
	}
	strategy := NewLLMStrategy(agg, client, cfg)

	entries, err := strategy.FindFounders(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Prajwalit Bhopale", entries[0].Name)
	assert.True(t, entries[0].Selected)
}

func TestLLMStrategy_DeduplicatesAcrossQueries(t *testing.T) {
	provider := &fakeProvider{result: &SearchResult{Snippets: "snippet"}}

	cfg := DefaultConfig()
	cfg.Queries = []string{"query one", "query two"}
	agg := NewAggregator(provider, newTestFetcher(t), cfg)

	client := &fakeClient{responses: []string{
		"Prajwalit Bhopale :: from query one",
		"prajwalit bhopale :: from query two",
		"Prajwalit",
	}}
	strategy := NewLLMStrategy(agg, client, cfg)

	entries, err := strategy.FindFounders(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Prajwalit Bhopale", entries[0].Name)
	assert.Equal(t, "from query one", entries[0].Reason)
	assert.Equal(t, []string{"Prajwalit Bhopale :: from query one"}, strategy.Session.RawLines)
}

func TestLLMStrategy_AllNoneSkipsSelection(t *testing.T) {
	provider := &fakeProvider{result: &SearchResult{Snippets: "snippet"}}
	agg := NewAggregator(provider, newTestFetcher(t), singleQueryConfig())

	client := &fakeClient{responses: []string{"NONE :: the corpus names no founders"}}
	strategy := NewLLMStrategy(agg, client, singleQueryConfig())

	entries, err := strategy.FindFounders(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Absent())
	assert.Equal(t, "the corpus names no founders", entries[0].Reason)
	assert.Equal(t, 1, client.callCount(), "selection call must be skipped on absence")
}

// hookProvider and hookClient let a test observe the session stage at the
// moment each external call happens.
type hookProvider struct {
	fakeProvider
	onSearch func()
}

func (p *hookProvider) Search(ctx context.Context, query string) (*SearchResult, error) {
	p.onSearch()
	return p.fakeProvider.Search(ctx, query)
}

type hookClient struct {
	fakeClient
	onCall func()
}

func (c *hookClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	c.onCall()
	return c.fakeClient.GenerateContent(ctx, prompt, tier)
}

func TestLLMStrategy_StagesAdvanceLinearly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Queries = []string{"query one", "query two"}

	var strategy *LLMStrategy
	var observed []Stage
	record := func() { observed = append(observed, strategy.Session.Stage) }

	provider := &hookProvider{
		fakeProvider: fakeProvider{result: &SearchResult{Snippets: "snippet"}},
		onSearch:     record,
	}
	client := &hookClient{
		fakeClient: fakeClient{responses: []string{
			"Prajwalit Bhopale :: named co-founder",
			"Kedar Sovani :: named co-founder",
			"Prajwalit",
		}},
		onCall: record,
	}
	agg := NewAggregator(provider, newTestFetcher(t), cfg)
	strategy = NewLLMStrategy(agg, client, cfg)

	_, err := strategy.FindFounders(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []Stage{
		StageSearching, StageSearching,
		StageExtracting, StageExtracting,
		StageSelecting,
	}, observed, "each stage must be entered once, with no regressions")
	assert.Equal(t, StageDone, strategy.Session.Stage)
}

func TestNewSession(t *testing.T) {
	session := NewSession()

	assert.Equal(t, StageSearching, session.Stage)
	assert.NotZero(t, session.RunID)
	assert.False(t, session.StartedAt.IsZero())

	session.Advance(StageExtracting)
	assert.Equal(t, StageExtracting, session.Stage)

	session.RecordCorpus("q", "twelve chars")
	require.Len(t, session.Corpora, 1)
	assert.Equal(t, 12, session.Corpora[0].Chars)
}
