package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports bad local input; no request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportKind subdivides transport failures.
type TransportKind int

const (
	TransportOther TransportKind = iota
	TransportUnauthorized
)

func (k TransportKind) String() string {
	if k == TransportUnauthorized {
		return "unauthorized"
	}
	return "other"
}

// TransportError is the uniform failure value produced by the gateway.
type TransportError struct {
	Kind    TransportKind
	Status  int // HTTP status, 0 when no response was received
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("transport %s (%d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("transport %s: %s", e.Kind, msg)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PreconditionError reports an action against a resource in the wrong lifecycle state.
type PreconditionError struct {
	Resource string
	ID       string
	State    string
	Message  string
}

func (e *PreconditionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Resource, e.Message)
	}
	return fmt.Sprintf("%s %s is %s: %s", e.Resource, e.ID, e.State, e.Message)
}

// IsUnauthorized reports whether err is a transport failure caused by a missing or rejected credential.
func IsUnauthorized(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == TransportUnauthorized
}

// ErrorMessage renders the human-readable text recorded in slice error fields.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var te *TransportError
	if errors.As(err, &te) {
		if te.Message != "" {
			return te.Message
		}
		if te.Err != nil {
			return te.Err.Error()
		}
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
