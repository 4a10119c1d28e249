// Package fetch provides the HTTP-fetch capability for job-posting pages:
// URL retrieval plus HTML-to-text extraction.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; JobTailor/1.0)"

// maxPageChars bounds extracted page text to stay within reasoning-service
// context limits.
const maxPageChars = 8000

// Page holds the processed content from a URL fetch.
type Page struct {
	URL        string
	Text       string
	HTML       string
	StatusCode int
}

// Error represents a failure to retrieve a page. Fetch failures are treated
// as likely-permanent: the caller re-invokes with a corrected URL rather
// than retrying automatically.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
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

// Fetcher is the capability interface stages depend on. Tests substitute
// mocks or httptest-backed clients.
type Fetcher interface {
	Fetch(ctx context.Context, urlStr string) (*Page, error)
}

// Client is the production Fetcher: plain HTTP first, with an optional
// headless-browser fallback for JavaScript-rendered job boards.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	UseBrowser bool
	Verbose    bool
}

// NewClient returns a Client with default timeout and user agent
func NewClient(useBrowser bool, verbose bool) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		UserAgent:  DefaultUserAgent,
		UseBrowser: useBrowser,
		Verbose:    verbose,
	}
}

// Fetch retrieves a page and extracts its main text. A non-success HTTP
// status or unreachable host yields an *Error.
func (c *Client) Fetch(ctx context.Context, urlStr string) (*Page, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("unsupported scheme %q", parsedURL.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			URL:        urlStr,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	html := string(bodyBytes)
	text, err := ExtractMainText(html, JobPostingSelectors())
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	// Short text usually means a JavaScript-rendered SPA; re-fetch through
	// a headless browser when enabled.
	if c.UseBrowser && ShouldUseBrowser(text) {
		renderedHTML, browserErr := WithBrowser(ctx, urlStr, DefaultTimeout, c.Verbose)
		if browserErr == nil {
			if renderedText, extractErr := ExtractMainText(renderedHTML, JobPostingSelectors()); extractErr == nil && len(renderedText) > len(text) {
				html = renderedHTML
				text = renderedText
			}
		} else if c.Verbose {
			fmt.Printf("Warning: browser fallback failed: %v\n", browserErr)
		}
	}

	if len(text) > maxPageChars {
		text = text[:maxPageChars]
	}

	return &Page{
		URL:        urlStr,
		Text:       text,
		HTML:       html,
		StatusCode: resp.StatusCode,
	}, nil
}

// ExtractMainText parses HTML and returns the main body text. Noise elements
// are removed first; content selectors are tried in order with a body
// fallback.
func ExtractMainText(html string, contentSelectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, aside, .ad, .advertisement, .sidebar, .cookie-banner, .popup").Remove()

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text()), nil
}

// JobPostingSelectors returns selectors optimized for job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace drops blank lines and trims each remaining line
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
