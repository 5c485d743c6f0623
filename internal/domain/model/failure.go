package model

import (
	"errors"
)

// Kind classifies an analysis failure.
type Kind string

// Failure kinds surfaced to callers.
const (
	KindInvalidInput       Kind = "InvalidInput"
	KindProfileNotFound    Kind = "ProfileNotFound"
	KindHistoryFetchFailed Kind = "HistoryFetchFailed"
	KindTransportError     Kind = "TransportError"
)

// Sentinel kinds for errors.Is checks against a *Failure.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrHistoryFetchFailed = errors.New("history fetch failed")
	ErrTransport          = errors.New("transport error")
)

var kindCodes = map[Kind]string{
	KindInvalidInput:       "invalid_input",
	KindProfileNotFound:    "profile_not_found",
	KindHistoryFetchFailed: "history_fetch_failed",
	KindTransportError:     "transport_error",
}

// Code returns the snake_case form of the kind used in API bodies and metric
// labels. Unknown kinds map to "error".
func (k Kind) Code() string {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return "error"
}

var kindSentinels = map[Kind]error{
	KindInvalidInput:       ErrInvalidInput,
	KindProfileNotFound:    ErrProfileNotFound,
	KindHistoryFetchFailed: ErrHistoryFetchFailed,
	KindTransportError:     ErrTransport,
}

// Failure is the typed error returned by fetchers and the analysis engine.
// Message carries the remote comment verbatim when the platform supplied one.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

// NewFailure builds a Failure of the given kind.
func NewFailure(kind Kind, message string, cause error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: cause}
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return string(f.Kind) + ": " + f.Message + ": " + f.Err.Error()
	}
	return string(f.Kind) + ": " + f.Message
}

// Unwrap exposes the underlying cause, if any.
func (f *Failure) Unwrap() error { return f.Err }

// Is matches the sentinel for the failure's kind.
func (f *Failure) Is(target error) bool {
	sentinel, ok := kindSentinels[f.Kind]
	return ok && sentinel == target
}

// KindOf returns the Kind of the first Failure in err's chain, or "".
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}
