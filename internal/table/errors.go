package table

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedState marks location values that were replaced by defaults.
	ErrMalformedState = errors.New("malformed table state")

	// ErrStaleResult is the outcome of a settlement whose token was superseded.
	ErrStaleResult = errors.New("stale result discarded")
)

// MalformedFieldError records one location key that could not be decoded.
type MalformedFieldError struct {
	Key   string
	Value string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("%s=%q: %v", e.Key, e.Value, ErrMalformedState)
}

func (e *MalformedFieldError) Unwrap() error { return ErrMalformedState }

// FetchError is a failed data-source call for the current request. It is
// recoverable by issuing the same request again.
type FetchError struct {
	Request Request
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d (size %d): %v", e.Request.Page, e.Request.PageSize, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
