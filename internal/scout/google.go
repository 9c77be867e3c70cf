package scout

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// GoogleSearch is an alternative Provider backed by the Google Custom
// Search API, used when GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX are
// configured. Unlike the DuckDuckGo scraper it depends on quota, so its
// errors propagate to the aggregator, which degrades the query to an
// empty corpus.
type GoogleSearch struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleSearch creates a Custom Search provider.
func NewGoogleSearch(ctx context.Context, apiKey, cx string) (*GoogleSearch, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleSearch{svc: svc, cx: cx}, nil
}

// Search runs one Custom Search query and adapts the structured response
// into the provider result shape.
func (g *GoogleSearch) Search(ctx context.Context, query string) (*SearchResult, error) {
	resp, err := g.svc.Cse.List().Context(ctx).Cx(g.cx).Q(query).Num(5).Do()
	if err != nil {
		return nil, fmt.Errorf("custom search failed: %w", err)
	}

	var parts []string
	var links []string
	for _, item := range resp.Items {
		if item.Title != "" {
			parts = append(parts, item.Title)
		}
		if item.Snippet != "" {
			parts = append(parts, item.Snippet)
		}
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}

	return &SearchResult{
		Snippets: fmt.Sprintf("=== Google: %q ===\n%s", query, strings.Join(parts, "\n")),
		Links:    links,
	}, nil
}
