// Package domain defines core types, interfaces, and errors for the
// interactive graph client.
package domain

import "fmt"

// StateError indicates an operation was attempted while the query handle
// was not in a usable state. The message always carries the status the
// handle was in when the operation was rejected.
type StateError struct {
	Op     string
	Status QueryStatus
	Reason string // optional detail, e.g. "no frontend endpoint configured"
}

func (e *StateError) Error() string {
	msg := fmt.Sprintf("%s: interactive query is unavailable with %s status", e.Op, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// RemoteError indicates a failure returned by the query endpoint for a
// submitted script. It is propagated verbatim; the client performs no
// retries.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote execution failed (status %d): %s", e.Code, e.Message)
}

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ErrState creates a StateError for the given operation and status.
func ErrState(op string, status QueryStatus) *StateError {
	return &StateError{Op: op, Status: status}
}

// ErrRemote creates a RemoteError with the endpoint's status code and message.
func ErrRemote(code int, format string, args ...interface{}) *RemoteError {
	return &RemoteError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
