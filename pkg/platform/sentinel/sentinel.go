// Package sentinel holds the storage-level facts shared by every store
// implementation. The lifecycle service maps them onto domain error codes,
// so stores never import domain-errors.
package sentinel

import "errors"

var (
	// ErrNotFound: no candidate, batch or tracker row for the key.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a unique column collided (CNIC, application id, batch code).
	ErrConflict = errors.New("conflict")
	// ErrInvalidState: a guarded update lost, e.g. a batch reached capacity
	// between the read and the increment.
	ErrInvalidState = errors.New("invalid state")
	// ErrLockHeld: another process owns the candidate's transition lock.
	ErrLockHeld = errors.New("lock held")
)

// IsStoreFact reports whether err wraps one of the sentinels above.
func IsStoreFact(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrLockHeld)
}
