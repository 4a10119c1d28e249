package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<nav>Navigation links</nav>
			<div class="job-description">
				<h1>Senior Backend Engineer</h1>
				<p>Build distributed systems in Go.</p>
			</div>
			<footer>Copyright</footer>
		</body></html>`))
	}))
	defer server.Close()

	client := NewClient(false, false)
	page, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.Text, "Senior Backend Engineer")
	assert.Contains(t, page.Text, "distributed systems in Go")
	assert.NotContains(t, page.Text, "Navigation links")
	assert.NotContains(t, page.Text, "Copyright")
}

func TestFetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(false, false)
	page, err := client.Fetch(context.Background(), server.URL)
	assert.Nil(t, page)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, server.URL, fetchErr.URL)
}

func TestFetch_InvalidURL(t *testing.T) {
	client := NewClient(false, false)

	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "no scheme", url: "example.com/jobs"},
		{name: "bad scheme", url: "ftp://example.com/jobs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := client.Fetch(context.Background(), tt.url)
			assert.Nil(t, page)

			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
		})
	}
}

func TestFetch_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(false, false)
	page, err := client.Fetch(context.Background(), url)
	assert.Nil(t, page)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.NotNil(t, errors.Unwrap(fetchErr))
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><body><main>Job text</main></body></html>`))
	}))
	defer server.Close()

	client := NewClient(false, false)
	_, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUserAgent)
}

func TestExtractMainText_SelectorPriority(t *testing.T) {
	html := `<html><body>
		<main>Fallback main content</main>
		<div class="job-description">Preferred job content</div>
	</body></html>`

	text, err := ExtractMainText(html, JobPostingSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Preferred job content", text)
}

func TestExtractMainText_BodyFallback(t *testing.T) {
	html := `<html><body><div>Just a bare div</div></body></html>`

	text, err := ExtractMainText(html, []string{".job-description"})
	require.NoError(t, err)
	assert.Equal(t, "Just a bare div", text)
}

func TestExtractMainText_CleansWhitespace(t *testing.T) {
	html := `<html><body><main>
		Line one

		Line two
	</main></body></html>`

	text, err := ExtractMainText(html, []string{"main"})
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short"))
	assert.True(t, ShouldUseBrowser(strings.Repeat(" ", MinContentLength+1)))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength+1)))
}
