package ports

import "context"

// SequenceAllocator hands out strictly increasing values from named counters.
// Used to allocate human-facing order numbers on the first confirmation-stage
// transition. Allocation is atomic: two concurrent calls for the same name
// never observe the same value. Gaps are acceptable when a caller's
// surrounding transaction rolls back.
type SequenceAllocator interface {
	// Next increments the named counter and returns the new value, creating
	// the counter at one on first use.
	Next(ctx context.Context, name string) (int64, error)
}
