package coverletter

import "fmt"

// Error means the cover-letter reasoning call failed after retries or
// produced output that is not a LaTeX document. This failure never
// invalidates the already-completed résumé artifacts.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cover letter failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cover letter failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
