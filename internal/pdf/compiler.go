// Package pdf renders persisted LaTeX artifacts to PDF through a remote
// compilation service. Rendering is a convenience on top of the .tex
// deliverables; callers treat failures as non-fatal.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseURL is the LaTeX.Online compile endpoint.
const DefaultBaseURL = "https://latexonline.cc/compile"

// DefaultTimeout is the per-request timeout for a remote compile.
const DefaultTimeout = 60 * time.Second

// Error represents a failed PDF compilation of one .tex file
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf compile error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf compile error for %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Compiler uploads .tex sources to the compile endpoint and stores the
// resulting PDF next to the source file.
type Compiler struct {
	HTTPClient *http.Client
	BaseURL    string
	Attempts   int
	RetryDelay time.Duration
	Verbose    bool
}

// New returns a Compiler against LaTeX.Online with two attempts per file
func New(verbose bool) *Compiler {
	return &Compiler{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		BaseURL:    DefaultBaseURL,
		Attempts:   2,
		RetryDelay: 3 * time.Second,
		Verbose:    verbose,
	}
}

// Compile uploads the .tex file and writes the compiled PDF alongside it,
// returning the PDF path. Failed attempts are retried up to Attempts times
// with a fixed delay, since the remote service fails transiently under load.
func (c *Compiler) Compile(ctx context.Context, texPath string) (string, error) {
	data, err := os.ReadFile(texPath)
	if err != nil {
		return "", &Error{Path: texPath, Message: "failed to read LaTeX source", Cause: err}
	}

	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if c.Verbose {
				fmt.Printf("  Compile attempt %d failed, retrying: %v\n", attempt-1, lastErr)
			}
			select {
			case <-time.After(c.RetryDelay):
			case <-ctx.Done():
				return "", &Error{Path: texPath, Message: "compile canceled", Cause: ctx.Err()}
			}
		}

		pdfData, err := c.upload(ctx, filepath.Base(texPath), data)
		if err != nil {
			lastErr = err
			continue
		}

		pdfPath := strings.TrimSuffix(texPath, filepath.Ext(texPath)) + ".pdf"
		if err := os.WriteFile(pdfPath, pdfData, 0o644); err != nil {
			return "", &Error{Path: texPath, Message: "failed to write PDF", Cause: err}
		}
		if c.Verbose {
			fmt.Printf("  PDF compiled (%d KB)\n", len(pdfData)/1024)
		}
		return pdfPath, nil
	}
	return "", lastErr
}

// upload runs one compile request and returns the PDF bytes
func (c *Compiler) upload(ctx context.Context, fileName string, texData []byte) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, &Error{Path: fileName, Message: "failed to build upload", Cause: err}
	}
	if _, err := part.Write(texData); err != nil {
		return nil, &Error{Path: fileName, Message: "failed to build upload", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Path: fileName, Message: "failed to build upload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, &body)
	if err != nil {
		return nil, &Error{Path: fileName, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &Error{Path: fileName, Message: "compile request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Path: fileName, Message: "failed to read compile response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/pdf") {
		detail := strings.TrimSpace(string(respData))
		if len(detail) > 500 {
			detail = detail[:500]
		}
		if detail == "" {
			detail = fmt.Sprintf("HTTP status %d", resp.StatusCode)
		}
		return nil, &Error{Path: fileName, Message: "compilation rejected: " + detail}
	}
	return respData, nil
}
