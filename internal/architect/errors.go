package architect

import "errors"

// ErrMissingArguments is returned when an operation is called without an
// argument object.
var ErrMissingArguments = errors.New("arguments are required")

// UnknownOperationError names an operation that is not registered.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return "unknown tool: " + e.Name
}
