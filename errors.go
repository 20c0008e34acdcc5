package oai

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures.
type Kind int

const (
	// Internal covers encoding failures, transport failures and missing
	// protocol sections.
	Internal Kind = iota
	// InvalidArgument is malformed caller input, e.g. an unparseable endpoint.
	InvalidArgument
	// InvalidResponse is a server reply that is not well-formed or violates
	// the protocol.
	InvalidResponse
	// NotFound means a requested record was not in the response.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case InvalidResponse:
		return "invalid response"
	case NotFound:
		return "not found"
	default:
		return "internal error"
	}
}

var (
	ErrInternal        = &Error{Kind: Internal}
	ErrInvalidArgument = &Error{Kind: InvalidArgument}
	ErrInvalidResponse = &Error{Kind: InvalidResponse}
	ErrNotFound        = &Error{Kind: NotFound}

	ErrNoEndpoint      = &Error{Kind: InvalidArgument, Msg: "an endpoint is required"}
	ErrNoMoreResults   = &Error{Kind: Internal, Msg: "no more results"}
	ErrTooManyRequests = &Error{Kind: Internal, Msg: "too many requests"}

	ErrMissingFromOrUntil = &Error{Kind: InvalidArgument, Msg: "missing from or until"}
)

// Error is the error type returned by this package. Use errors.Is with one
// of the Err* kind sentinels to test the class of a failure.
type Error struct {
	Kind Kind
	// Msg is a short description; for NotFound it is the identifier.
	Msg string
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: '%s': %v", e.Kind, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: '%s'", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match, if target is an *Error of the same kind whose message
// is either empty or equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

func errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// OAIError wraps OAI error codes and messages.
type OAIError struct {
	Code    string
	Message string
}

// Error to satisfy interface.
func (e OAIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TransportError is a failed HTTP exchange. Connection failures and timeouts
// have a zero StatusCode.
type TransportError struct {
	URL        string
	StatusCode int
	// Body holds the response body of a non-2xx reply, if it could be read.
	Body      string
	Retryable bool
	Err       error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRetryable reports whether err stems from a transport failure, that might
// succeed when repeated.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return false
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}
