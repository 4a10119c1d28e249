package refactor

import "fmt"

// Error means no directive could be applied: the output would be identical
// to the input, which is not a useful result
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("refactor failed: %s", e.Message)
}
