// Package errs defines the error taxonomy shared by the store, the service and the transport.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	// KindInternal is the zero kind for errors that carry no classification.
	KindInternal Kind = iota
	// KindConfig is malformed or missing required configuration.
	KindConfig
	// KindInvalidArgument is a request the caller must correct.
	KindInvalidArgument
	// KindEmptyStore means no records were available when required.
	KindEmptyStore
	// KindIo is a filesystem failure.
	KindIo
	// KindSerialization is a dataset or record that failed to (de)serialize.
	KindSerialization
	// KindStorage is a failure reported by the embedded database engine.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindEmptyStore:
		return "empty_store"
	case KindIo:
		return "io"
	case KindSerialization:
		return "serialization"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Status classes reported to RPC callers.
const (
	StatusInvalidArgument    = "invalid_argument"
	StatusFailedPrecondition = "failed_precondition"
	StatusInternal           = "internal"
)

// ErrEmptyStore is the sentinel matched by errors.Is for every KindEmptyStore error.
var ErrEmptyStore = &Error{Kind: KindEmptyStore, Message: "vector store is empty"}

// Error is a classified failure. Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String() + " error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a causeless *Error target by kind, so errors.Is(err, ErrEmptyStore)
// holds for every empty-store error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// Config returns a configuration error.
func Config(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument returns a caller-correctable request error.
func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// EmptyStore returns an empty-store error with the given message.
func EmptyStore(message string) *Error {
	return &Error{Kind: KindEmptyStore, Message: message}
}

// Io wraps a filesystem error.
func Io(message string, err error) *Error {
	return &Error{Kind: KindIo, Message: message, Err: err}
}

// Serialization wraps a JSON encode/decode error.
func Serialization(message string, err error) *Error {
	return &Error{Kind: KindSerialization, Message: message, Err: err}
}

// Storage wraps an embedded database error.
func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusClass maps err to the status class exposed to callers.
func StatusClass(err error) string {
	switch KindOf(err) {
	case KindConfig, KindInvalidArgument:
		return StatusInvalidArgument
	case KindEmptyStore:
		return StatusFailedPrecondition
	default:
		return StatusInternal
	}
}

// HTTPStatus maps err to the HTTP status code used by the transport.
func HTTPStatus(err error) int {
	switch StatusClass(err) {
	case StatusInvalidArgument:
		return http.StatusBadRequest
	case StatusFailedPrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// FromStatusClass rebuilds an error received over the wire from its status
// class, so errors.Is and StatusClass behave the same on both sides.
func FromStatusClass(class, message string) *Error {
	kind := KindInternal
	switch class {
	case StatusInvalidArgument:
		kind = KindInvalidArgument
	case StatusFailedPrecondition:
		kind = KindEmptyStore
	}
	return &Error{Kind: kind, Message: message}
}
