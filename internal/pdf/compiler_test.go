package pdf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTex = `\documentclass{article}
\begin{document}
Hello
\end{document}`

func writeTex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.tex")
	require.NoError(t, os.WriteFile(path, []byte(testTex), 0644))
	return path
}

func testCompiler(baseURL string) *Compiler {
	return &Compiler{
		HTTPClient: http.DefaultClient,
		BaseURL:    baseURL,
		Attempts:   2,
		RetryDelay: 0,
	}
}

func TestCompile_Success(t *testing.T) {
	var gotFileName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		gotFileName = header.Filename

		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.5 fake"))
	}))
	defer server.Close()

	texPath := writeTex(t)
	pdfPath, err := testCompiler(server.URL).Compile(context.Background(), texPath)
	require.NoError(t, err)

	assert.Equal(t, "resume.tex", gotFileName)
	assert.Equal(t, filepath.Join(filepath.Dir(texPath), "resume.pdf"), pdfPath)
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.5 fake", string(data))
}

func TestCompile_RejectionReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("! Undefined control sequence"))
	}))
	defer server.Close()

	texPath := writeTex(t)
	_, err := testCompiler(server.URL).Compile(context.Background(), texPath)
	require.Error(t, err)

	var compileErr *Error
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Message, "Undefined control sequence")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(texPath), "resume.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompile_NonPDFResponseIsRejected(t *testing.T) {
	// A 200 with an HTML body means the service returned an error page
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>compile log</html>"))
	}))
	defer server.Close()

	_, err := testCompiler(server.URL).Compile(context.Background(), writeTex(t))
	assert.Error(t, err)
}

func TestCompile_RetriesTransientFailure(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt64(&requests, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.5 fake"))
	}))
	defer server.Close()

	pdfPath, err := testCompiler(server.URL).Compile(context.Background(), writeTex(t))
	require.NoError(t, err)
	assert.NotEmpty(t, pdfPath)
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}

func TestCompile_ExhaustsAttempts(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := testCompiler(server.URL).Compile(context.Background(), writeTex(t))
	assert.Error(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}

func TestCompile_MissingSourceFile(t *testing.T) {
	_, err := testCompiler("http://unused.invalid").Compile(context.Background(), filepath.Join(t.TempDir(), "missing.tex"))
	require.Error(t, err)

	var compileErr *Error
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Message, "failed to read")
}
