// Package fetch provides URL fetching with retry, on-disk caching, and
// HTML-to-text processing. It centralizes the HTTP logic used by the scout
// search pipeline.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the per-request socket timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent mimics a desktop browser; the DuckDuckGo HTML endpoint
// serves a degraded page to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

const (
	// DefaultMaxAttempts is the number of tries per URL before giving up.
	DefaultMaxAttempts = 3
	// DefaultBackoffBase is the delay before the first retry; each
	// subsequent retry doubles it.
	DefaultBackoffBase = 500 * time.Millisecond
)

// ErrorPrefix marks the sentinel text returned when all attempts fail.
// Downstream stages receive this string instead of an error so a dead URL
// never aborts a run.
const ErrorPrefix = "[fetch error: "

// Error represents a failure to retrieve a URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures fetch behavior.
type Options struct {
	Timeout     time.Duration
	UserAgent   string
	MaxAttempts int
	BackoffBase time.Duration
	Headers     map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxAttempts: DefaultMaxAttempts,
		BackoffBase: DefaultBackoffBase,
	}
}

// URL retrieves the body of a single URL with no retries. Non-200 responses
// are errors; the partial result is still returned for status inspection.
func URL(ctx context.Context, urlStr string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return string(bodyBytes), &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return string(bodyBytes), nil
}

// WithRetry fetches a URL with exponential backoff. It never returns an
// error: after the last failed attempt it returns a sentinel error string
// so callers always receive text, possibly low-information.
func WithRetry(ctx context.Context, urlStr string, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
	}
	attempts := opts.MaxAttempts
	if attempts < 2 {
		attempts = 2
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := opts.BackoffBase << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ErrorPrefix + ctx.Err().Error() + "]"
			}
		}
		body, err := URL(ctx, urlStr, opts)
		if err == nil {
			return body
		}
		lastErr = err
	}
	return ErrorPrefix + lastErr.Error() + "]"
}

// IsErrorText reports whether text is a fetch failure sentinel rather than
// real page content.
func IsErrorText(text string) bool {
	return strings.HasPrefix(text, ErrorPrefix)
}

var (
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	entityRe = regexp.MustCompile(`&[a-zA-Z]+;`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// StripTags converts HTML into plain text and collapses whitespace. It
// parses with goquery and drops script/style noise; if parsing fails it
// falls back to regex tag removal.
func StripTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return CollapseWhitespace(entityRe.ReplaceAllString(tagRe.ReplaceAllString(html, " "), " "))
	}
	doc.Find("script, style, noscript").Remove()
	return CollapseWhitespace(doc.Text())
}

// CollapseWhitespace squeezes runs of whitespace into single spaces.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}
