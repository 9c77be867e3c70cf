// Package composer generates the application email: a model-written cover
// letter grounded in the resume text, plus the deterministic subject line
// and rhyming-quote block that must survive model variance.
package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nova0077/unravel-dspy/internal/llm"
	"github.com/nova0077/unravel-dspy/internal/prompts"
)

// CompanyDescription grounds the cover letter in what Unravel.tech builds.
const CompanyDescription = `Unravel.tech is a company building production-grade agentic AI systems. They believe
the old way of building software is dying and are at the forefront of this change.
They care deeply about: rapid experimentation, technical depth, honesty about what
works, and adaptive planning. They heavily use DSPy for structured AI systems,
and are looking for hands-on engineers who are great communicators and take their
craft seriously.`

// ThirdRhymingWord rhymes with "Apply" and "DSPy" and completes the
// subject-line requirement.
const ThirdRhymingWord = "simplify"

// Email is a composed application email ready for the mailer.
type Email struct {
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	To          string `json:"to"`
	RhymingWord string `json:"rhyming_word"`
}

// BuildSubject returns the fixed subject line. It must contain "Apply",
// "DSPy", and the rhyming third word, so it is never left to the model.
func BuildSubject() string {
	titled := strings.ToUpper(ThirdRhymingWord[:1]) + ThirdRhymingWord[1:]
	return fmt.Sprintf("Apply with DSPy — I %s", titled)
}

// Composer writes cover letters with a language model.
type Composer struct {
	client        llm.Client
	candidateName string
	agentName     string
}

// New creates a composer. Empty names fall back to the standard sign-off.
func New(client llm.Client, candidateName, agentName string) *Composer {
	if candidateName == "" {
		candidateName = "Praveen"
	}
	if agentName == "" {
		agentName = "Gemini"
	}
	return &Composer{client: client, candidateName: candidateName, agentName: agentName}
}

// Compose generates the full application email for one founder. The body
// comes from the model; the quote block and the agent co-signature are
// appended deterministically when missing, and never duplicated.
func (c *Composer) Compose(ctx context.Context, founderName, founderEmail, resumeText string) (*Email, error) {
	fmt.Printf("[composer] generating cover letter for %s using resume context\n", founderName)

	template := prompts.MustGet("composer.json", "cover-letter")
	prompt := prompts.Format(template, map[string]string{
		"FounderName":        founderName,
		"CompanyDescription": CompanyDescription,
		"ResumeText":         resumeText,
		"CandidateName":      c.candidateName,
		"AgentName":          c.agentName,
	})

	response, err := llm.GenerateWithFallback(ctx, c.client, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("cover letter generation failed: %w", err)
	}

	body := EnsureBlocks(strings.TrimSpace(llm.CleanFences(response)), c.candidateName, c.agentName)

	subject := BuildSubject()
	fmt.Printf("[composer] subject: %s\n", subject)
	fmt.Printf("[composer] cover letter generated (%d chars)\n", len(body))

	return &Email{
		Subject:     subject,
		Body:        body,
		To:          founderEmail,
		RhymingWord: ThirdRhymingWord,
	}, nil
}

// EnsureBlocks appends the rhyming-quote block and the agent co-signature
// to a body that lacks them. Presence checks use the same markers that the
// blocks themselves carry, so repeated application is a no-op.
func EnsureBlocks(body, candidateName, agentName string) string {
	quoteBlock := "\n\nI choose the 3rd rhyming word as Simplify because, it fits well with the quote\n" +
		"Apply the pattern,\n" +
		"DSPy the chain,\n" +
		"Simplify the logic,\n\n" +
		"Thanks for your time."
	if !strings.Contains(body, "Simplify because") {
		body += quoteBlock
	}

	if !strings.Contains(strings.ToLower(body), "with assistance from") {
		body += fmt.Sprintf("\n\nThanks,\n%s (with assistance from %s)", candidateName, agentName)
	}
	return body
}
