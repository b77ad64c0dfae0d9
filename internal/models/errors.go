package models

import "fmt"

// ValidationError represents a data validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}

// TransitionError is returned for an illegal question-cycle state change.
type TransitionError struct {
	From CycleState
	To   CycleState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal cycle transition %s -> %s", e.From, e.To)
}

func (e *TransitionError) IsTransient() bool {
	return false
}
