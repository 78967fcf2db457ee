package availability

import "errors"

var (
	// ErrAvailabilityFetchFailed is non-fatal: the day renders as fully booked
	// and the console offers a retry.
	ErrAvailabilityFetchFailed = errors.New("availability fetch failed")
	// ErrShootsFetchFailed means booked intervals are unknown.
	ErrShootsFetchFailed = errors.New("shoot fetch failed")
)
