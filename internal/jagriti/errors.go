package jagriti

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure
type Kind string

const (
	KindUpstreamBlocked     Kind = "UpstreamBlocked"
	KindInvalidRequest      Kind = "InvalidRequest"
	KindUpstreamMalformed   Kind = "UpstreamMalformed"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindInvalidInput        Kind = "InvalidInput"
)

// PreviewLimit bounds the raw body excerpt attached to malformed responses
const PreviewLimit = 200

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrUpstreamBlocked     = &Error{Kind: KindUpstreamBlocked}
	ErrInvalidRequest      = &Error{Kind: KindInvalidRequest}
	ErrUpstreamMalformed   = &Error{Kind: KindUpstreamMalformed}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
)

// Error is the only error type returned by the gateway operations
type Error struct {
	Kind Kind
	// Op is the gateway operation that failed, e.g. "search_cases"
	Op      string
	Message string
	// Status is the upstream HTTP status, 0 when no response was received
	Status int
	// Preview holds at most PreviewLimit characters of an unparseable body
	Preview string
	// Detail is extra context such as the title of an HTML block page
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "jagriti: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == ""
}

// KindOf extracts the Kind of a gateway error, or "" for anything else
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}

func blockedError(op string, status int, detail string) *Error {
	return &Error{
		Kind:    KindUpstreamBlocked,
		Op:      op,
		Message: "403 Forbidden - API blocked the request",
		Status:  status,
		Detail:  detail,
	}
}

func invalidRequestError(op string, status int) *Error {
	return &Error{
		Kind:    KindInvalidRequest,
		Op:      op,
		Message: "400 Bad Request - Check payload fields",
		Status:  status,
	}
}

func malformedError(op string, status int, body []byte, cause error) *Error {
	return &Error{
		Kind:    KindUpstreamMalformed,
		Op:      op,
		Message: "Invalid response format from Jagriti",
		Status:  status,
		Preview: preview(body),
		Err:     cause,
	}
}

func unavailableError(op string, status int, cause error) *Error {
	return &Error{
		Kind:    KindUpstreamUnavailable,
		Op:      op,
		Message: "upstream unavailable",
		Status:  status,
		Err:     cause,
	}
}

func invalidInputError(op, message string, cause error) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Op:      op,
		Message: message,
		Err:     cause,
	}
}

// preview cuts body to PreviewLimit characters without splitting a rune
func preview(body []byte) string {
	runes := []rune(string(body))
	if len(runes) > PreviewLimit {
		runes = runes[:PreviewLimit]
	}
	return string(runes)
}
