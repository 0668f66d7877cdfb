// Package editerr defines the error kinds surfaced by the vertex drag tool.
package editerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of an editing error
type Kind string

const (
	// InvalidLayer indicates the active layer is absent or not an editable vector layer
	InvalidLayer Kind = "INVALID_LAYER"

	// StaleReference indicates the dragged feature or vertex vanished mid-drag
	StaleReference Kind = "STALE_REFERENCE"

	// InvalidGeometry indicates the edited geometry cannot be written
	InvalidGeometry Kind = "INVALID_GEOMETRY"

	// WriteError indicates the data store rejected a commit
	WriteError Kind = "WRITE_ERROR"

	// FeatureNotFound indicates a layer lookup for an unknown feature id
	FeatureNotFound Kind = "FEATURE_NOT_FOUND"
)

// Error is an editing failure with its kind, the operation and feature involved
type Error struct {
	Kind      Kind
	Op        string
	FeatureID string
	Message   string
	Cause     error
}

// New creates an error of the given kind
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: [%s] %s", e.Op, e.Kind, e.Message)
	if e.FeatureID != "" {
		msg = fmt.Sprintf("%s (feature %s)", msg, e.FeatureID)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// WithFeature records the feature the error relates to
func (e *Error) WithFeature(id string) *Error {
	e.FeatureID = id
	return e
}

// WithCause adds an underlying cause
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks
var (
	ErrInvalidLayer    = &Error{Kind: InvalidLayer}
	ErrStaleReference  = &Error{Kind: StaleReference}
	ErrInvalidGeometry = &Error{Kind: InvalidGeometry}
	ErrWrite           = &Error{Kind: WriteError}
	ErrFeatureNotFound = &Error{Kind: FeatureNotFound}
)

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// StatusCode maps an error to the HTTP status the host adapter reports
func StatusCode(err error) int {
	kind, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case InvalidLayer, StaleReference:
		return http.StatusConflict
	case InvalidGeometry:
		return http.StatusUnprocessableEntity
	case WriteError:
		return http.StatusBadGateway
	case FeatureNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
