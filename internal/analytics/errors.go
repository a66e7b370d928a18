package analytics

import "errors"

// Error taxonomy. Malformed single trades become Warnings (see sanitize.go)
// and never abort a batch; statistics that cannot be computed become
// Undefined metrics. Only these are real errors:
var (
	// ErrComputation marks an internal invariant violation, a defect
	// rather than a data condition
	ErrComputation = errors.New("analytics: computation invariant violated")

	// ErrCancelled is returned when a batch computation is abandoned
	// through its context
	ErrCancelled = errors.New("analytics: computation cancelled")
)
