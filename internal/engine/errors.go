package engine

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies why a fetch failed.
type FetchErrorKind string

const (
	// KindNetwork covers unreachable endpoints, timeouts and non-2xx responses.
	KindNetwork FetchErrorKind = "network"
	// KindDecode covers bodies that are not JSON or not a JSON object.
	KindDecode FetchErrorKind = "decode"
)

// Sentinels matched by errors.Is against a *FetchError of the same kind.
var (
	ErrNetwork = errors.New("network error")
	ErrDecode  = errors.New("decode error")
)

var (
	errNotObject     = errors.New("expected a JSON object")
	errNotList       = errors.New("expected a JSON array")
	errEmptyText     = errors.New("empty text entry")
	errUnsupported   = errors.New("unsupported entry shape")
	errMissingField  = errors.New("missing required field")
	errInvalidNumber = errors.New("invalid number")
)

// FetchError is returned by the fetcher when a tick has to be skipped.
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

func networkError(err error) *FetchError { return &FetchError{Kind: KindNetwork, Err: err} }
func decodeError(err error) *FetchError  { return &FetchError{Kind: KindDecode, Err: err} }

// FieldError records a top-level snapshot field that was present but could
// not be split into entries. Only that stream is skipped for the tick.
type FieldError struct {
	Stream Stream
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stream, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// EntryError records a single list element that could not be interpreted.
// The element is dropped; the rest of the batch is still applied.
type EntryError struct {
	Stream Stream
	Index  int
	Err    error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Stream, e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// issueStream returns the stream an isolated issue belongs to.
func issueStream(err error) Stream {
	var ee *EntryError
	if errors.As(err, &ee) {
		return ee.Stream
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Stream
	}
	return ""
}
