package research

import "fmt"

// Error means the search provider itself failed (auth, quota, network) after
// its retry budget. Zero results is not an error; the stage degrades instead.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("research failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("research failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
