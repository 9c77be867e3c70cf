// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/nova0077/unravel-dspy/internal/composer"
	"github.com/nova0077/unravel-dspy/internal/scout"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCandidates outputs the resolved founder candidates, marking the
// selected one.
func (p *Printer) PrintCandidates(entries []scout.CandidateEntry) {
	if len(entries) == 0 {
		return
	}

	if len(entries) == 1 && entries[0].Absent() {
		p.printBox("FOUNDER SEARCH", "No founders identified.\n"+entries[0].Reason)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d candidates:\n\n", len(entries)))

	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		e := entries[i]
		marker := " "
		if e.Selected {
			marker = "★"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, e.Name))
		reason := e.Reason
		if len(reason) > 50 {
			reason = reason[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", reason))
		if e.Email != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", e.Email))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(entries)-maxItemsToShow))
	}

	p.printBox("FOUNDER CANDIDATES", sb.String())
}

// PrintSession outputs the run record: stage, corpora sizes, raw lines.
func (p *Printer) PrintSession(session *scout.Session) {
	if session == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:    %s\n", session.RunID))
	sb.WriteString(fmt.Sprintf("Stage:  %s\n", session.Stage))

	if len(session.Corpora) > 0 {
		sb.WriteString("\nCorpora:\n")
		for _, c := range session.Corpora {
			query := c.Query
			if len(query) > 38 {
				query = query[:35] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s (%d chars)\n", query, c.Chars))
		}
	}

	if len(session.RawLines) > 0 {
		sb.WriteString(fmt.Sprintf("\nExtractor lines: %d\n", len(session.RawLines)))
	}

	p.printBox("SCOUT SESSION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEmail outputs a summary of the composed email.
func (p *Printer) PrintEmail(email *composer.Email) {
	if email == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To:       %s\n", email.To))
	sb.WriteString(fmt.Sprintf("Subject:  %s\n", email.Subject))
	sb.WriteString(fmt.Sprintf("Rhyme:    %s\n", email.RhymingWord))
	sb.WriteString(fmt.Sprintf("Body:     %d chars", len(email.Body)))

	p.printBox("COMPOSED EMAIL", sb.String())
}
