// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. The identity provider boundary reports its failures
// through these kinds so the session layer never has to inspect library-specific types.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// NoNetwork indicates that no network connectivity was available.
	NoNetwork Kind = "no_network"
	// CancelledByUser indicates the user aborted an interactive sign-in.
	CancelledByUser Kind = "cancelled_by_user"
	// UIRequired indicates a silent acquisition cannot proceed without user interaction.
	UIRequired Kind = "ui_required"
	// Unknown covers every other provider failure.
	Unknown Kind = "unknown"
	// PersistenceFailure indicates a local cache read or write failed.
	PersistenceFailure Kind = "persistence_failure"
	// NotConfigured indicates an operation ran before the session was configured.
	NotConfigured Kind = "not_configured"
	// InvalidConfig indicates the authority configuration failed validation.
	InvalidConfig Kind = "invalid_config"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
