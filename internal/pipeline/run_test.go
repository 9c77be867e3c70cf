package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova0077/unravel-dspy/internal/scout"
)

func TestChooseRecipient_SelectedWins(t *testing.T) {
	founders := []scout.CandidateEntry{
		{Name: "Kedar Sovani", Reason: "interview"},
		{Name: "Prajwalit Bhopale", Reason: "co-founder", Email: "prajwalit@unravel.tech", Selected: true},
	}

	selected, err := chooseRecipient(founders, "")

	require.NoError(t, err)
	assert.Equal(t, "Prajwalit Bhopale", selected.Name)
	assert.Equal(t, "prajwalit@unravel.tech", selected.Email)
}

func TestChooseRecipient_FallbackToFirstPopulated(t *testing.T) {
	founders := []scout.CandidateEntry{
		{Name: "Kedar Sovani", Reason: "interview"},
		{Name: "Vedang Manerikar", Reason: "team page"},
	}

	selected, err := chooseRecipient(founders, "")

	require.NoError(t, err)
	assert.Equal(t, "Kedar Sovani", selected.Name)
	assert.Equal(t, "kedar@unravel.tech", selected.Email)
}

func TestChooseRecipient_FallbackUsesConfiguredDomain(t *testing.T) {
	founders := []scout.CandidateEntry{{Name: "Kedar Sovani", Reason: "interview"}}

	selected, err := chooseRecipient(founders, "example.org")

	require.NoError(t, err)
	assert.Equal(t, "kedar@example.org", selected.Email,
		"fallback must derive from the same domain as the selector")
}

func TestChooseRecipient_FallbackDoesNotMutateInput(t *testing.T) {
	founders := []scout.CandidateEntry{{Name: "Kedar Sovani", Reason: "interview"}}

	_, err := chooseRecipient(founders, "")

	require.NoError(t, err)
	assert.Empty(t, founders[0].Email, "fallback must derive the email on a copy")
}

func TestChooseRecipient_AbsenceAborts(t *testing.T) {
	founders := []scout.CandidateEntry{{Reason: "No founders could be identified."}}

	_, err := chooseRecipient(founders, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No founders could be identified.")
}

func TestChooseRecipient_EmptyListAborts(t *testing.T) {
	_, err := chooseRecipient(nil, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No founders found.")
}

func TestEmitProgress(t *testing.T) {
	var events []ProgressEvent
	opts := &RunOptions{OnProgress: func(e ProgressEvent) { events = append(events, e) }}
	runID := uuid.New()

	emitProgress(opts, runID, StepScout, "Resolved 2 candidates", nil)

	require.Len(t, events, 1)
	assert.Equal(t, StepScout, events[0].Step)
	assert.Equal(t, runID.String(), events[0].RunID)
}

func TestEmitProgress_NoCallback(t *testing.T) {
	assert.NotPanics(t, func() {
		emitProgress(&RunOptions{}, uuid.New(), StepResume, "ok", nil)
	})
}

func TestRun_MissingResumeFailsBeforeScouting(t *testing.T) {
	opts := RunOptions{
		ResumePath: filepath.Join(t.TempDir(), "missing.pdf"),
	}

	_, err := Run(context.Background(), opts)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume parsing failed")
}
