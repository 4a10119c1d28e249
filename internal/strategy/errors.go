package strategy

import "fmt"

// Error means the strategist could not produce a usable edit plan: the
// reasoning call failed after retries, or every directive was dropped at
// validation and the run cannot proceed meaningfully
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("strategy failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("strategy failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
