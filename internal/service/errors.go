package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no source tier holds the barcode.
	ErrNotFound = errors.New("no data available for barcode")
	// ErrMalformedRecord means a fetched record lacks identity fields. The
	// resolver treats it as not found for that tier.
	ErrMalformedRecord = errors.New("malformed product record")
)

// FetchError is a transport failure from one source.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
