package domain

import "fmt"

// ValidationError reports a missing required field. It is resolved locally
// and never reaches the network.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
