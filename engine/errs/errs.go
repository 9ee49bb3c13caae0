// Package errs defines the error kinds raised by the core.
// Load-time kinds are fatal at boot; InvalidState marks a programmer error.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the category of an error.
type Kind string

const (
	MissingAsset    Kind = "missing_asset"
	SchemaViolation Kind = "schema_violation"
	ConfigError     Kind = "config_error"
	PlacementFailed Kind = "placement_failed"
	InvalidState    Kind = "invalid_state"
)

// Error is the base error type for the core.
type Error struct {
	Kind     Kind
	Message  string
	Document string // asset document name, if any
	Pointer  string // JSON pointer into Document, if any
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Document != "" {
		if e.Pointer != "" {
			msg = fmt.Sprintf("%s#%s: %s", e.Document, e.Pointer, msg)
		} else {
			msg = fmt.Sprintf("%s: %s", e.Document, msg)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MissingAssetf creates a missing asset error with formatting.
func MissingAssetf(format string, args ...any) error {
	return &Error{Kind: MissingAsset, Message: fmt.Sprintf(format, args...)}
}

// Schema creates a schema violation for a document location.
func Schema(document, pointer, message string) error {
	return &Error{Kind: SchemaViolation, Document: document, Pointer: pointer, Message: message}
}

// ConfigErrorf creates a configuration error with formatting.
func ConfigErrorf(format string, args ...any) error {
	return &Error{Kind: ConfigError, Message: fmt.Sprintf(format, args...)}
}

// WrapConfig wraps err as a configuration error of a document.
func WrapConfig(document string, err error) error {
	return &Error{Kind: ConfigError, Document: document, Message: "invalid document", Err: err}
}

// PlacementFailedf creates a placement error with formatting.
func PlacementFailedf(format string, args ...any) error {
	return &Error{Kind: PlacementFailed, Message: fmt.Sprintf(format, args...)}
}

// InvalidStatef creates an invalid state error with formatting.
func InvalidStatef(format string, args ...any) error {
	return &Error{Kind: InvalidState, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
