package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova0077/unravel-dspy/internal/llm"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

func TestBuildSubject(t *testing.T) {
	subject := BuildSubject()

	assert.Contains(t, subject, "Apply")
	assert.Contains(t, subject, "DSPy")
	assert.Contains(t, subject, "Simplify")
}

func TestEnsureBlocks_AppendsWhenMissing(t *testing.T) {
	body := EnsureBlocks("Hi Prajwalit, Hope you're doing well.", "Praveen", "Gemini")

	assert.Contains(t, body, "Simplify because")
	assert.Contains(t, body, "Apply the pattern,")
	assert.Contains(t, body, "Thanks,\nPraveen (with assistance from Gemini)")
}

func TestEnsureBlocks_NeverDuplicates(t *testing.T) {
	once := EnsureBlocks("Hi Prajwalit.", "Praveen", "Gemini")
	twice := EnsureBlocks(once, "Praveen", "Gemini")

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(twice, "Simplify because"))
	assert.Equal(t, 1, strings.Count(strings.ToLower(twice), "with assistance from"))
}

func TestEnsureBlocks_RespectsModelProvidedBlocks(t *testing.T) {
	body := "Hi Prajwalit.\n\nI chose Simplify because it rhymes.\n\nThanks,\nPraveen (with assistance from Gemini)"

	out := EnsureBlocks(body, "Praveen", "Gemini")

	assert.Equal(t, body, out)
}

func TestCompose_HappyPath(t *testing.T) {
	client := &fakeClient{response: "Hi Prajwalit, Hope you're doing well.\n\nI build backend systems."}
	c := New(client, "Praveen", "Gemini")

	email, err := c.Compose(context.Background(), "Prajwalit", "prajwalit@unravel.tech", "resume body text")

	require.NoError(t, err)
	assert.Equal(t, "prajwalit@unravel.tech", email.To)
	assert.Equal(t, "simplify", email.RhymingWord)
	assert.Equal(t, BuildSubject(), email.Subject)
	assert.Contains(t, email.Body, "I build backend systems.")
	assert.Contains(t, email.Body, "Simplify because")
	assert.Contains(t, email.Body, "with assistance from Gemini")

	assert.Contains(t, client.prompt, "resume body text")
	assert.Contains(t, client.prompt, "Prajwalit")
	assert.Contains(t, client.prompt, CompanyDescription)
}

func TestCompose_StripsCodeFences(t *testing.T) {
	client := &fakeClient{response: "```\nHi Prajwalit.\n```"}
	c := New(client, "Praveen", "Gemini")

	email, err := c.Compose(context.Background(), "Prajwalit", "prajwalit@unravel.tech", "resume")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(email.Body, "Hi Prajwalit."))
}

func TestCompose_ModelError(t *testing.T) {
	client := &fakeClient{err: errors.New("permanent model failure")}
	c := New(client, "Praveen", "Gemini")

	_, err := c.Compose(context.Background(), "Prajwalit", "prajwalit@unravel.tech", "resume")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cover letter generation failed")
}

func TestNew_DefaultNames(t *testing.T) {
	c := New(&fakeClient{}, "", "")

	assert.Equal(t, "Praveen", c.candidateName)
	assert.Equal(t, "Gemini", c.agentName)
}
