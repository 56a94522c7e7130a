package services

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
)

// GenericFailure is shown for failures the user can only retry.
const GenericFailure = "Something went wrong. Please try again."

var (
	ErrEditorClosed   = errors.New("editor closed")
	ErrSessionChanged = errors.New("signed-in user changed")
)

// ValidationError lists form fields that failed local checks. No request
// was sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// CredentialError is a definitive refusal by the backend. Field is empty
// for form-level messages. Retrying the same input will not help.
type CredentialError struct {
	Field   string
	Message string
}

func (e *CredentialError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// TransientError covers network failures, timeouts and malformed replies.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return GenericFailure
}

func (e *TransientError) Unwrap() error { return e.Err }

type fieldErrors map[string]string

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// classify turns a client error into a CredentialError or TransientError.
// field scopes rejections to one input; "" makes them form-level.
func classify(err error, field string) error {
	if err == nil {
		return nil
	}
	var rejected *client.RejectedError
	switch {
	case errors.As(err, &rejected):
		return &CredentialError{Field: field, Message: capitalize(rejected.Message)}
	case errors.Is(err, client.ErrUnauthorized):
		return &CredentialError{Message: "Your session has expired. Please sign in again."}
	case errors.Is(err, client.ErrNoSession):
		return err
	}
	return &TransientError{Err: fmt.Errorf("backend call: %w", err)}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
