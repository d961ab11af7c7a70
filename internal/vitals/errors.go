// ABOUTME: Sentinel errors for the record engine.
// ABOUTME: Callers discriminate outcomes with errors.Is.
package vitals

import "errors"

var (
	// ErrNotFound means a search or position lookup matched nothing.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate means an add or edit would collide with an existing
	// timestamp. The offending timestamp is reported alongside.
	ErrDuplicate = errors.New("duplicate timestamp")

	// ErrEmptyRecord means an operation would leave a record with no
	// measurement values at all.
	ErrEmptyRecord = errors.New("record has no measurements")

	// ErrOutOfRange means a measurement lies outside its plausible range.
	ErrOutOfRange = errors.New("measurement outside plausible range")

	// ErrNoSelection signals that the user backed out of a selection or
	// confirmation step. It aborts the operation but is not a failure.
	ErrNoSelection = errors.New("no selection made")

	// ErrSearchLimit means a search did not converge within the step
	// bound. The store only behaves this way when its sort order has
	// been corrupted, so callers should treat it as a data-integrity
	// problem rather than retry.
	ErrSearchLimit = errors.New("search did not converge")
)
