package scout

import (
	"context"
	"sync"

	"github.com/nova0077/unravel-dspy/internal/llm"
)

// fakeClient returns scripted responses in call order. Errors are returned
// in place of the response at the same index.
type fakeClient struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)

	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call < len(f.responses) {
		return f.responses[call], nil
	}
	return "", nil
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeProvider returns a fixed search result for every query.
type fakeProvider struct {
	result *SearchResult
	err    error
}

func (p *fakeProvider) Search(context.Context, string) (*SearchResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}
