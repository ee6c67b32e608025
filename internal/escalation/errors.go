package escalation

import "fmt"

// ValidationError reports a required field that was missing or empty on intake.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// InvalidArgumentError reports a query or update argument that failed validation.
type InvalidArgumentError struct {
	Name   string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Name, e.Reason)
}
