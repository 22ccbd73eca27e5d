package gateway

import (
	"errors"
	"fmt"
)

// SchemaMismatchError reports model output that is not JSON, fails output
// validation, or was refused by the provider. It is never retried.
type SchemaMismatchError struct {
	Backend string
	Reason  string
	Err     error
}

func (e *SchemaMismatchError) Error() string {
	msg := "model output does not match schema"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaMismatchError) Unwrap() error { return e.Err }

// UpstreamError reports a failure to reach the model or an error returned
// by its API. Rate-limit and auth failures are not distinguished.
type UpstreamError struct {
	Backend string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: upstream failure", e.Backend)
	}
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Refusal builds the error a backend returns when the provider declines to
// produce structured output.
func Refusal(backend, reason string) error {
	return &SchemaMismatchError{Backend: backend, Reason: "refused: " + reason}
}

// classify maps a backend error onto the gateway taxonomy.
func classify(backend string, err error) error {
	var mismatch *SchemaMismatchError
	if errors.As(err, &mismatch) {
		return err
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return err
	}
	return &UpstreamError{Backend: backend, Err: err}
}
