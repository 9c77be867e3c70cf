// Package pipeline provides the high-level orchestration for the job
// application agent: parse the resume, scout for the PR founder, compose
// the cover letter, and send it. Steps run strictly in order; each consumes
// the previous step's output.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/nova0077/unravel-dspy/internal/composer"
	"github.com/nova0077/unravel-dspy/internal/mailer"
	"github.com/nova0077/unravel-dspy/internal/observability"
	"github.com/nova0077/unravel-dspy/internal/resume"
	"github.com/nova0077/unravel-dspy/internal/scout"
)

// Step names for progress events.
const (
	StepResume  = "resume"
	StepScout   = "scout"
	StepCompose = "compose"
	StepSend    = "send"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	ResumePath    string
	CandidateName string
	AgentName     string

	Strategy    scout.FounderResolutionStrategy
	Composer    *composer.Composer
	Sender      *mailer.Sender
	EmailDomain string

	MockRecipient string
	Verbose       bool
	OnProgress    ProgressCallback
}

// RunResult holds the outputs of a completed run.
type RunResult struct {
	RunID    uuid.UUID              `json:"run_id"`
	Founders []scout.CandidateEntry `json:"founders"`
	Selected *scout.CandidateEntry  `json:"selected,omitempty"`
	Email    *composer.Email        `json:"email,omitempty"`
	Sent     bool                   `json:"sent"`
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID uuid.UUID, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   runID.String(),
			Content: content,
		})
	}
}

// Run executes the full application pipeline. A run that sends no mail is
// still a successful run when that was the configured outcome (dry run,
// declined confirmation); errors mean a step could not produce its output.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	runID := uuid.New()
	result := &RunResult{RunID: runID}

	fmt.Println("\nUnravel.tech Job Application Agent")
	fmt.Println(strings.Repeat("=", 42))

	// Step 1: parse resume.
	fmt.Printf("\n[agent] Step 1/4: parsing resume from %s\n", opts.ResumePath)
	resumeText, err := resume.ParseFile(opts.ResumePath)
	if err != nil {
		return nil, fmt.Errorf("resume parsing failed: %w", err)
	}
	emitProgress(&opts, runID, StepResume, fmt.Sprintf("Parsed resume (%d chars)", len(resumeText)), nil)

	// Step 2: scout for the PR founder.
	fmt.Println("\n[agent] Step 2/4: scouting for Unravel.tech founders")
	founders, err := opts.Strategy.FindFounders(ctx)
	if err != nil {
		return nil, fmt.Errorf("founder scouting failed: %w", err)
	}
	result.Founders = founders
	emitProgress(&opts, runID, StepScout, fmt.Sprintf("Resolved %d candidates", len(founders)), founders)

	if opts.Verbose {
		observability.NewPrinter(os.Stdout).PrintCandidates(founders)
	}

	selected, err := chooseRecipient(founders, opts.EmailDomain)
	if err != nil {
		return nil, err
	}
	result.Selected = selected
	fmt.Printf("[agent] selected: %s (%s)\n", selected.Name, selected.Email)

	// Step 3: compose the cover letter.
	fmt.Println("\n[agent] Step 3/4: composing cover letter")
	email, err := opts.Composer.Compose(ctx, selected.FirstName(), selected.Email, resumeText)
	if err != nil {
		return nil, fmt.Errorf("composition failed: %w", err)
	}
	result.Email = email
	emitProgress(&opts, runID, StepCompose, "Composed application email", email)

	if opts.Verbose {
		observability.NewPrinter(os.Stdout).PrintEmail(email)
	}

	// Step 4: send, honoring the recipient override for test runs.
	recipient := email.To
	if opts.MockRecipient != "" {
		fmt.Printf("\n[agent] TEST MODE: recipient overridden %s -> %s\n", email.To, opts.MockRecipient)
		recipient = opts.MockRecipient
	}

	fmt.Println("\n[agent] Step 4/4: sending email")
	sent, err := opts.Sender.Send(&mailer.Message{
		To:         recipient,
		Subject:    email.Subject,
		Body:       email.Body,
		ResumePath: opts.ResumePath,
	})
	if err != nil {
		return nil, fmt.Errorf("sending failed: %w", err)
	}
	result.Sent = sent
	emitProgress(&opts, runID, StepSend, fmt.Sprintf("Send complete (sent=%v)", sent), nil)

	if sent {
		fmt.Printf("\n[agent] done, application sent to %s\n", recipient)
		fmt.Printf("[agent] subject: %s\n", email.Subject)
	}
	return result, nil
}

// chooseRecipient applies the recipient policy to the scout's output: use
// the selected entry when one exists; with no selection but populated
// names, fall back to the first populated entry and derive its email; with
// only the absence placeholder, abort carrying its reason.
func chooseRecipient(founders []scout.CandidateEntry, emailDomain string) (*scout.CandidateEntry, error) {
	if selected := scout.Selected(founders); selected != nil {
		return selected, nil
	}

	for i := range founders {
		if founders[i].Absent() {
			continue
		}
		fallback := founders[i]
		fallback.Email = scout.DeriveEmail(fallback.FirstName(), emailDomain)
		fmt.Printf("[agent] no verified PR founder; falling back to %s\n", fallback.Name)
		return &fallback, nil
	}

	reason := "No founders found."
	if len(founders) > 0 && founders[0].Reason != "" {
		reason = founders[0].Reason
	}
	return nil, fmt.Errorf("could not continue: %s", reason)
}
