package client

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure. The set is closed: every non-2xx
// response and every transport failure maps to exactly one kind, so callers
// never inspect raw payloads or status codes.
type Kind string

const (
	// KindUnauthorized: the session is invalid, expired or revoked. The
	// gateway has already reset the session store by the time the caller
	// sees this.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden: authenticated but lacking the role or ownership for
	// the action.
	KindForbidden Kind = "forbidden"
	// KindConflict: the server rejected the request because of an overlap
	// or a stale-state cancel.
	KindConflict Kind = "conflict"
	// KindValidation: field-level rejection; Fields carries the
	// field → message map when the server supplied one.
	KindValidation Kind = "validation"
	// KindNotFound: the addressed entity does not exist.
	KindNotFound Kind = "not_found"
	// KindTransient: network failure, timeout or 5xx. The gateway never
	// retries; the caller decides whether to surface or retry.
	KindTransient Kind = "transient"
)

// APIError is the typed form of every failure the gateway produces.
type APIError struct {
	Kind    Kind
	Code    string // server-supplied machine-readable errorCode, when present
	Message string
	Status  int               // HTTP status, 0 for transport failures
	Fields  map[string]string // validation failures only
	cause   error
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// ErrorKind extracts the Kind from err, or "" when err is not an APIError.
func ErrorKind(err error) Kind {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

func IsUnauthorized(err error) bool { return ErrorKind(err) == KindUnauthorized }
func IsConflict(err error) bool     { return ErrorKind(err) == KindConflict }
func IsTransient(err error) bool    { return ErrorKind(err) == KindTransient }
func IsNotFound(err error) bool     { return ErrorKind(err) == KindNotFound }
