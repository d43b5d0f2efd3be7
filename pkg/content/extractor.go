package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
)

const maxPageSize = 4 * 1024 * 1024

// HTTPExtractor extracts article text from pages using trafilatura.
// Used for items whose feed entry carries too little text to summarise.
type HTTPExtractor struct {
	client        *http.Client
	userAgent     string
	minTextLength int
}

// NewHTTPExtractor creates a new content extractor
func NewHTTPExtractor(timeout time.Duration, userAgent string, minTextLength int) *HTTPExtractor {
	return &HTTPExtractor{
		client:        &http.Client{Timeout: timeout},
		userAgent:     userAgent,
		minTextLength: minTextLength,
	}
}

// Extract returns main text of the article page as a single line, pages shorter
// than the minimal text length are errors so the caller keeps the feed text.
func (e *HTTPExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if page.Scheme == "" || page.Host == "" {
		return "", fmt.Errorf("invalid url %q", pageURL)
	}

	body, err := e.fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	text, err := articleText(io.LimitReader(body, maxPageSize), page)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", pageURL, err)
	}
	if n := len([]rune(text)); n < e.minTextLength {
		return "", fmt.Errorf("extract %s: text too short, %d chars", pageURL, n)
	}
	return text, nil
}

// fetch gets the page body, only html responses are accepted
func (e *HTTPExtractor) fetch(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("make request: %w", err)
	}
	addBrowserHeaders(req, e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get page %s: %w", pageURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("get page %s: status %d", pageURL, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		resp.Body.Close()
		return nil, fmt.Errorf("get page %s: not an html page, %s", pageURL, ct)
	}
	return resp.Body, nil
}

// articleText runs trafilatura with comments, images and links dropped, whitespace collapsed
func articleText(r io.Reader, page *url.URL) (string, error) {
	result, err := trafilatura.Extract(r, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     page,
	})
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", fmt.Errorf("no article found")
	}
	text := strings.Join(strings.Fields(result.ContentText), " ")
	if text == "" {
		return "", fmt.Errorf("no article text")
	}
	return text, nil
}
