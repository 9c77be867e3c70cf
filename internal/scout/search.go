package scout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nova0077/unravel-dspy/internal/fetch"
)

// SearchResult holds the normalized output of one search-engine query.
type SearchResult struct {
	// Snippets is the normalized text of result titles and snippets.
	Snippets string
	// Links are the top result destination URLs, redirect wrappers
	// already unwrapped.
	Links []string
	// Fallback is true when the structural markers were absent and the
	// whole page was tag-stripped instead.
	Fallback bool
}

// Provider issues one search-engine query and returns its results.
type Provider interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

// DuckDuckGo searches the DuckDuckGo HTML endpoint. The endpoint serves
// plain HTML with no JavaScript and no CAPTCHA, which keeps the scraper
// simple. Result titles carry the class "result__a" and snippets
// "result__snippet"; those markers are best-effort, so a full tag-strip
// fallback exists for when the markup changes.
type DuckDuckGo struct {
	fetcher *fetch.CachedFetcher
	cfg     *Config
}

// NewDuckDuckGo creates the default search provider.
func NewDuckDuckGo(fetcher *fetch.CachedFetcher, cfg *Config) *DuckDuckGo {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &DuckDuckGo{fetcher: fetcher, cfg: cfg}
}

// Search fetches the results page for a query and extracts titles,
// snippets, and top result links. It never returns an error: fetch
// failures surface as low-information sentinel text on the fallback path.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (*SearchResult, error) {
	searchURL := d.cfg.SearchEndpoint + url.QueryEscape(query)
	fmt.Printf("[scout] DuckDuckGo search: %q\n", query)

	page := d.fetcher.Fetch(ctx, searchURL)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Text))
	if err != nil {
		return rawFallback(query, page.Text, d.cfg.MaxRawChars), nil
	}

	var parts []string
	var links []string
	doc.Find("a.result__a").Each(func(_ int, s *goquery.Selection) {
		if text := fetch.CollapseWhitespace(s.Text()); text != "" {
			parts = append(parts, text)
		}
		if href, ok := s.Attr("href"); ok {
			if dest := UnwrapRedirect(href); dest != "" {
				links = append(links, dest)
			}
		}
	})
	doc.Find(".result__snippet").Each(func(_ int, s *goquery.Selection) {
		if text := fetch.CollapseWhitespace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		// DDG changed its markup, or the fetch failed outright.
		return rawFallback(query, page.Text, d.cfg.MaxRawChars), nil
	}

	return &SearchResult{
		Snippets: fmt.Sprintf("=== DDG: %q ===\n%s", query, strings.Join(parts, "\n")),
		Links:    links,
	}, nil
}

// rawFallback tag-strips the whole page, capped at a fixed character
// budget regardless of query count.
func rawFallback(query, html string, maxChars int) *SearchResult {
	text := fetch.StripTags(html)
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return &SearchResult{
		Snippets: fmt.Sprintf("=== DDG: %q (raw) ===\n%s", query, text),
		Fallback: true,
	}
}

// UnwrapRedirect resolves a DuckDuckGo redirect-wrapper URL (the uddg
// parameter) to its real destination. Non-wrapper URLs pass through;
// scheme-relative URLs get https. Returns "" for unusable hrefs.
func UnwrapRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if dest := parsed.Query().Get("uddg"); dest != "" {
		return dest
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return href
}

// Aggregator produces one bounded text corpus per search query: the
// provider's snippets plus the normalized text of a few top result pages.
type Aggregator struct {
	provider Provider
	fetcher  *fetch.CachedFetcher
	cfg      *Config
}

// NewAggregator wires a provider and fetcher into a corpus builder.
func NewAggregator(provider Provider, fetcher *fetch.CachedFetcher, cfg *Config) *Aggregator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Aggregator{provider: provider, fetcher: fetcher, cfg: cfg}
}

// Corpus gathers the normalized text for one query. Queries share no
// state; a failed search contributes an empty corpus rather than an
// error.
func (a *Aggregator) Corpus(ctx context.Context, query string) string {
	result, err := a.provider.Search(ctx, query)
	if err != nil {
		fmt.Printf("[scout] search failed for %q: %v\n", query, err)
		return ""
	}

	parts := []string{result.Snippets}

	links := result.Links
	if len(links) > a.cfg.MaxResultLinks {
		links = links[:a.cfg.MaxResultLinks]
	}
	for _, link := range links {
		page := a.fetcher.Fetch(ctx, link)
		if fetch.IsErrorText(page.Text) {
			continue
		}
		if text := fetch.StripTags(page.Text); text != "" {
			parts = append(parts, text)
		}
	}

	corpus := strings.Join(parts, "\n\n")
	if a.cfg.MaxCorpusChars > 0 && len(corpus) > a.cfg.MaxCorpusChars {
		corpus = corpus[:a.cfg.MaxCorpusChars]
	}
	return corpus
}
