package types

import "fmt"

// VenueError is a structured error response from the venue API.
type VenueError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *VenueError) Error() string {
	return fmt.Sprintf("venue error (HTTP %d): %s (%s)", e.StatusCode, e.Message, e.Code)
}

// TransportError wraps a request that failed after exhausting retries. Callers
// must treat the underlying operation as unresolved, not as rejected.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ContractViolation reports input that breaks a documented precondition, such
// as a price outside the 1..99 cent range.
type ContractViolation struct {
	Field  string
	Reason string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation: %s %s", e.Field, e.Reason)
}
