package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an error so the HTTP boundary can map it to a status code
// without inspecting message text.
type Kind int

const (
	// KindInternal is an unexpected failure; details stay out of responses.
	KindInternal Kind = iota
	// KindBadRequest is malformed input or a business-rule rejection.
	KindBadRequest
	// KindUnauthorized is a missing or unverifiable credential.
	KindUnauthorized
	// KindForbidden is a verified credential with insufficient privileges.
	KindForbidden
	// KindNotFound is a reference to an entity that does not exist.
	KindNotFound
	// KindConflict is a race lost at commit time; safe to retry.
	KindConflict
	// KindTimeout is a store call that exceeded its deadline; transient.
	KindTimeout
)

// Error is a kind-tagged error value. Kinds propagate unchanged through the
// call chain; no layer re-wraps one kind as another.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// BadRequest builds a KindBadRequest error.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Unauthorized builds a KindUnauthorized error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden builds a KindForbidden error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a KindConflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Timeout builds a KindTimeout error.
func Timeout(message string) *Error {
	return &Error{Kind: KindTimeout, Message: message}
}

// Internal wraps an unexpected error. The cause is kept for logs but never
// rendered to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf extracts the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps a kind-tagged error to its HTTP rendering. Untagged
// errors become a generic 500; raw store error text is never exposed.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !stderrors.As(err, &e) {
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "internal server error", Code: "INTERNAL_ERROR"}
	}
	switch e.Kind {
	case KindBadRequest:
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: e.Message, Code: "BAD_REQUEST"}
	case KindUnauthorized:
		return &HTTPError{StatusCode: http.StatusUnauthorized, Message: e.Message, Code: "UNAUTHORIZED"}
	case KindForbidden:
		return &HTTPError{StatusCode: http.StatusForbidden, Message: e.Message, Code: "FORBIDDEN"}
	case KindNotFound:
		return &HTTPError{StatusCode: http.StatusNotFound, Message: e.Message, Code: "NOT_FOUND"}
	case KindConflict:
		return &HTTPError{StatusCode: http.StatusConflict, Message: e.Message, Code: "CONFLICT"}
	case KindTimeout:
		return &HTTPError{StatusCode: http.StatusServiceUnavailable, Message: e.Message, Code: "TIMEOUT"}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "internal server error", Code: "INTERNAL_ERROR"}
	}
}
