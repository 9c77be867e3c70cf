package scout

import (
	"regexp"
	"strings"
)

// namePattern matches exactly-two-word Title-Cased names.
var namePattern = regexp.MustCompile(`\b([A-Z][a-z]{2,14})\s+([A-Z][a-z]{2,14})\b`)

// HasPR reports whether "pr" appears as consecutive letters anywhere in s,
// case-insensitive. "Express" matches mid-word.
func HasPR(s string) bool {
	return strings.Contains(strings.ToLower(s), "pr")
}

// HasPRNameParts reports whether "pr" appears in the first token or the
// last token of a full name. A match only in a middle token does not
// count: the business rule is about first or last names.
func HasPRNameParts(fullName string) bool {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return false
	}
	return HasPR(fields[0]) || HasPR(fields[len(fields)-1])
}

// ExtractNames pulls two-word Title-Cased person names out of free text,
// filters them through the non-name blocklist, and deduplicates preserving
// first-seen order.
func ExtractNames(text string, blocklist map[string]bool) []string {
	matches := namePattern.FindAllStringSubmatch(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, m := range matches {
		first, last := m[1], m[2]
		if blocklist[first] || blocklist[last] {
			continue
		}
		full := first + " " + last
		if !seen[full] {
			seen[full] = true
			unique = append(unique, full)
		}
	}
	return unique
}

// DefaultBlocklist returns capitalized words that the two-word name regex
// matches on search result pages but that are not person names. Grown from
// observed DuckDuckGo and LinkedIn page chrome.
func DefaultBlocklist() map[string]bool {
	words := []string{
		"Privacy", "Policy", "Terms", "Agreement", "Service", "Cookie",
		"Technical", "Depth", "Production", "Engineering", "Product", "Rapid",
		"Prototyping", "Planning", "Assessment", "Architecture", "Systems",
		"Approach", "Mindset", "Results", "Resources", "Context", "Protocol",
		"Espressif", "Model", "User", "About", "Contact", "Login", "Sign",
		"Join", "Learn", "More", "View", "Profile", "People", "Company",
		"Google", "DuckDuckGo", "Twitter", "Youtube", "Github", "Apple",
		"Open", "Source", "Agent", "Build", "Ship", "Scale", "Team",
		"Artificial", "Intelligence", "Machine", "Learning", "Language",
		"Distributed", "Autonomous", "Sales", "Multi", "Modern", "Loop",
		"Senior", "Software", "Engineer", "Developer", "Director", "Manager",
		"Head", "Vice", "President", "Chief", "Officer", "Executive",
		"Home", "Blog", "Talks", "Events", "Talk", "Without", "Ceremony",
		"That", "Kill", "Ideas", "Work", "Unlike", "Prioritize", "Evaluate",
		"Risk", "Assess", "Optimize", "Deploy", "Minutes", "Memory", "Long",
		"Expensive", "Mistakes", "Prevents",
		"Professional", "Overview", "Express", "Scripts", "Private", "Limited",
		"Privately", "Held", "Promise", "Provides", "Promoted",
	}

	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
