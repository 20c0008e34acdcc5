package oai

import (
	"errors"
	"testing"
)

func TestErrorIs(t *testing.T) {
	var tests = []struct {
		err    error
		target error
		is     bool
	}{
		{errorf(NotFound, "oai:x:1"), ErrNotFound, true},
		{errorf(NotFound, "oai:x:1"), &Error{Kind: NotFound, Msg: "oai:x:1"}, true},
		{errorf(NotFound, "oai:x:1"), &Error{Kind: NotFound, Msg: "oai:x:2"}, false},
		{errorf(NotFound, "oai:x:1"), ErrInternal, false},
		{wrap(Internal, &TransportError{URL: "u", Retryable: true}), ErrInternal, true},
		{ErrTooManyRequests, ErrInternal, true},
		{ErrNoEndpoint, ErrInvalidArgument, true},
		{errors.New("other"), ErrInternal, false},
	}
	for _, test := range tests {
		if got := errors.Is(test.err, test.target); got != test.is {
			t.Errorf("errors.Is(%v, %v) got %v, want %v", test.err, test.target, got, test.is)
		}
	}
}

func TestErrorString(t *testing.T) {
	var tests = []struct {
		err error
		s   string
	}{
		{errorf(NotFound, "oai:x:1"), "not found: 'oai:x:1'"},
		{wrap(InvalidResponse, OAIError{Code: "badVerb", Message: "no"}), "invalid response: badVerb: no"},
		{&Error{Kind: InvalidArgument, Msg: "x", Err: errors.New("bad")}, "invalid argument: 'x': bad"},
		{&TransportError{URL: "http://x", StatusCode: 503}, "http://x: HTTP 503"},
	}
	for _, test := range tests {
		if test.err.Error() != test.s {
			t.Errorf("Error() got %q, want %q", test.err.Error(), test.s)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("x")) {
		t.Errorf("plain error should not be retryable")
	}
	if !IsRetryable(wrap(Internal, &TransportError{Retryable: true})) {
		t.Errorf("wrapped retryable transport error not detected")
	}
}
