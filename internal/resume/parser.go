// Package resume extracts plain text from a PDF resume for prompt
// construction. Layout fidelity does not matter downstream; the composer
// only needs the words.
package resume

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(` {2,}`)
)

// ParseFile reads a PDF from disk and returns its plain text. An empty
// extraction is an error: a resume with no extractable text means the PDF
// is image-only or corrupt, and the composer must not run on nothing.
func ParseFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("resume not found at %s: %w", path, err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open resume pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			fmt.Printf("[resume] skipping unreadable page %d: %v\n", i, err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	text := Clean(b.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return text, nil
}

// Clean normalizes extracted PDF text: runs of blank lines collapse to one
// blank line and runs of spaces to a single space.
func Clean(text string) string {
	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
