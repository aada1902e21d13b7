package models

import "fmt"

// FailureKind classifies why an operation failed
type FailureKind string

const (
	FailureNone             FailureKind = ""
	FailureValidation       FailureKind = "validation"
	FailureAuth             FailureKind = "auth"
	FailureNotFound         FailureKind = "not_found"
	FailureUnprocessable    FailureKind = "unprocessable"
	FailureUnexpectedStatus FailureKind = "unexpected_status"
	FailureTimeout          FailureKind = "timeout"
	FailureTransport        FailureKind = "transport"
	FailureFilesystem       FailureKind = "filesystem"
)

// Result is the uniform outcome of every pipeline operation.
// On success Message is empty or carries a payload (view id, download location).
// On failure Message is a human readable diagnostic and Kind is set.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Kind    FailureKind `json:"kind,omitempty"`
}

// Succeeded returns a successful result carrying payload
func Succeeded(payload string) Result {
	return Result{Success: true, Message: payload}
}

// Failed returns a failed result of the given kind
func Failed(kind FailureKind, format string, args ...any) Result {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		msg = "unknown failure"
	}
	return Result{Success: false, Message: msg, Kind: kind}
}

// Err converts a failed result into an error, nil on success
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return &ResultError{Kind: r.Kind, Message: r.Message}
}

// ResultError is the error form of a failed Result, used at the CLI boundary
type ResultError struct {
	Kind    FailureKind
	Message string
}

func (e *ResultError) Error() string {
	return e.Message
}
