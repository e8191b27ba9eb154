package client

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/kbconsole/internal/common"
)

var (
	ErrUnavailable       = errors.New("unable to connect to server")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNeedsVerification = errors.New("account needs verification")

	// ErrSessionExpired is returned when an expired token could not be refreshed.
	ErrSessionExpired = common.ErrSessionExpired
	// ErrNoSession is returned for a protected request made without any token.
	ErrNoSession = common.ErrNoSession
)

// needsVerificationMessage is what the backend answers with 401 for an
// account whose email was never confirmed.
const needsVerificationMessage = "Need to verify"

// APIError is a non-successful answer from the backend. Message is the
// server's message, shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ValidationError carries field-level messages keyed by the JSON field name.
// It is produced both by local form validation and by backend 400 answers.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{}}
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns e when it holds at least one field message, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}

	msg := e.Message
	if msg == "" {
		msg = "validation error"
	}
	if len(parts) == 0 {
		return msg
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}
