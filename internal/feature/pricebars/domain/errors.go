// Package domain defines domain-level errors for the pricebars feature.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors for fetch and store operations.
// Use errors.Is against these; *FetchError and *StoreError match them.
var (
	// ErrTransport indicates a network failure, a timeout, or a non-2xx HTTP status.
	ErrTransport = errors.New("transport error")

	// ErrAPI indicates the provider answered but without the expected time series,
	// e.g. an unknown symbol, a rate-limit note, or an upstream error message.
	ErrAPI = errors.New("api error")

	// ErrParse indicates the payload had the time series but a record was malformed.
	// Parse errors are also reported as ErrAPI.
	ErrParse = errors.New("parse error")

	// ErrStore indicates the sink failed to persist a batch.
	ErrStore = errors.New("store error")
)

// FetchErrorKind categorizes a FetchError.
type FetchErrorKind string

const (
	FetchErrorTransport FetchErrorKind = "transport"
	FetchErrorAPI       FetchErrorKind = "api"
	FetchErrorParse     FetchErrorKind = "parse"
)

// FetchError is the failure reason carried by a failed FetchResult.
type FetchError struct {
	Kind       FetchErrorKind
	Symbol     string
	StatusCode int    // HTTP status, 0 when no response was received
	Message    string // provider message for API errors
	Cause      error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s error for %s", e.Kind, e.Symbol)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error kind. Parse errors match ErrAPI too.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == FetchErrorTransport
	case ErrAPI:
		return e.Kind == FetchErrorAPI || e.Kind == FetchErrorParse
	case ErrParse:
		return e.Kind == FetchErrorParse
	}
	return false
}

// NewTransportError creates a transport error. statusCode is 0 for network failures.
func NewTransportError(symbol string, statusCode int, cause error) *FetchError {
	return &FetchError{Kind: FetchErrorTransport, Symbol: symbol, StatusCode: statusCode, Cause: cause}
}

// NewAPIError creates an API error carrying the provider message.
func NewAPIError(symbol, message string) *FetchError {
	return &FetchError{Kind: FetchErrorAPI, Symbol: symbol, Message: message}
}

// NewParseError creates a parse error for a malformed record.
func NewParseError(symbol string, cause error) *FetchError {
	return &FetchError{Kind: FetchErrorParse, Symbol: symbol, Cause: cause}
}

// StoreError wraps a sink failure for one symbol's batch.
type StoreError struct {
	Symbol string
	Code   string // SQLSTATE when the sink is PostgreSQL
	Cause  error
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store error for %s (sqlstate %s): %v", e.Symbol, e.Code, e.Cause)
	}
	return fmt.Sprintf("store error for %s: %v", e.Symbol, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// NewStoreError creates a StoreError.
func NewStoreError(symbol string, cause error) *StoreError {
	return &StoreError{Symbol: symbol, Cause: cause}
}
