// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lookup

import (
	"errors"
	"fmt"
)

// ErrNoResults means the lookup completed but found nothing: the location
// did not geocode, or no restaurant survived normalization. Callers treat it
// as an empty success rather than a failure.
var ErrNoResults = errors.New("no restaurants found")

var errNoBackends = errors.New("no restaurant backends configured")

// TimeoutError reports that the lookup ran past its deadline
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("restaurant lookup timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// UpstreamError is a transport or decoding failure talking to the geocoder
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// FetchError means every points-of-interest backend failed (or none is
// configured). Err is the last failure seen.
type FetchError struct {
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("restaurant fetch failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
