package collectors

import (
	"errors"
	"fmt"
)

// FailureKind categorizes why a collection attempt produced no value.
type FailureKind string

const (
	// KindLoading marks the placeholder stored in a slot before the
	// source's first poll has completed. It is never produced by a
	// collector.
	KindLoading FailureKind = "loading"

	// KindConfigMissing means a required credential or setting is absent.
	KindConfigMissing FailureKind = "config_missing"

	// KindProcessFailure means a CLI or scripting call failed (exec
	// error, nonzero exit, unusable output).
	KindProcessFailure FailureKind = "process_failure"

	// KindNetwork means a transport-level failure: timeout, connection
	// refused, DNS error.
	KindNetwork FailureKind = "network"

	// KindAuth means a credential was rejected by the pre-check.
	KindAuth FailureKind = "auth"

	// KindBadResponse means the remote API answered with a payload we
	// could not parse or with an unexpected shape.
	KindBadResponse FailureKind = "bad_response"

	// KindEmptyResult means the query returned zero items where at least
	// one was expected. This is a policy error, not a transport error.
	KindEmptyResult FailureKind = "empty_result"

	// KindUnsupported means the source cannot exist on this platform.
	KindUnsupported FailureKind = "unsupported"
)

// SourceError is the typed failure stored in a snapshot slot when a
// collection attempt fails. It carries the cause category alongside a
// human-readable message.
type SourceError struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return e.Message
}

// Errf constructs a SourceError with a formatted message.
func Errf(kind FailureKind, format string, args ...any) *SourceError {
	return &SourceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Loading returns the placeholder error for a slot that has not been
// polled yet. The message is deliberately distinguishable from any
// substantive collector error.
func Loading(source Source) *SourceError {
	return &SourceError{
		Kind:    KindLoading,
		Message: fmt.Sprintf("loading %s data…", source),
	}
}

// AsSourceError converts an arbitrary collector error into a *SourceError.
// Errors that are not already SourceErrors are classified as network
// failures, the catch-all for external calls.
func AsSourceError(err error) *SourceError {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) {
		return se
	}
	return &SourceError{Kind: KindNetwork, Message: err.Error()}
}
