package dataservice

import (
	"errors"
	"fmt"
)

// ErrNilFetcher is returned by New when no fetcher is supplied.
var ErrNilFetcher = errors.New("dataservice: nil fetcher")

// FetchError wraps a failure returned by a Fetcher. It unwraps to the
// original error so errors.Is and errors.As see through it.
type FetchError struct {
	Key string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("dataservice: fetch %q: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
