package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testOptions() *Options {
	opts := DefaultOptions()
	opts.Timeout = 2 * time.Second
	opts.BackoffBase = time.Millisecond
	return opts
}

func TestURL_InvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "example.com/page"},
		{"garbage", "://nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := URL(context.Background(), tt.url, testOptions())
			if err == nil {
				t.Fatalf("URL(%q) expected error, got nil", tt.url)
			}
		})
	}
}

func TestURL_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello from server"))
	}))
	defer srv.Close()

	body, err := URL(context.Background(), srv.URL, testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "hello from server" {
		t.Errorf("body = %q, expected %q", body, "hello from server")
	}
}

func TestURL_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := URL(context.Background(), srv.URL, testOptions())
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	var fetchErr *Error
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %v should mention status 503", err)
	}
	_ = fetchErr
}

func TestURL_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	opts := testOptions()
	if _, err := URL(context.Background(), srv.URL, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA != opts.UserAgent {
		t.Errorf("User-Agent = %q, expected %q", gotUA, opts.UserAgent)
	}
}

func TestWithRetry_RecoversAfterTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	text := WithRetry(context.Background(), srv.URL, testOptions())
	if text != "recovered" {
		t.Errorf("text = %q, expected %q", text, "recovered")
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("server saw %d requests, expected 3", calls)
	}
}

func TestWithRetry_ExhaustionReturnsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	text := WithRetry(context.Background(), srv.URL, testOptions())
	if !IsErrorText(text) {
		t.Errorf("expected sentinel error text, got %q", text)
	}
}

func TestIsErrorText(t *testing.T) {
	if !IsErrorText("[fetch error: connection refused]") {
		t.Error("sentinel text not recognized")
	}
	if IsErrorText("ordinary page content") {
		t.Error("ordinary content misclassified as sentinel")
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "basic markup",
			html:     "<html><body><p>Hello   <b>World</b></p></body></html>",
			expected: "Hello World",
		},
		{
			name:     "drops scripts and styles",
			html:     "<body><script>var x=1;</script><style>p{}</style>Visible</body>",
			expected: "Visible",
		},
		{
			name:     "collapses newlines",
			html:     "<div>one</div>\n\n\n<div>two</div>",
			expected: "one two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.html); got != tt.expected {
				t.Errorf("StripTags() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("  a \t b\n\nc  ")
	if got != "a b c" {
		t.Errorf("CollapseWhitespace() = %q, expected %q", got, "a b c")
	}
}
