package uindex

import "sync/atomic"

// queryStats tracks the query funnel with lock-free counters so concurrent
// readers stay contention-free.
type queryStats struct {
	queries          atomic.Int64
	tooShort         atomic.Int64
	unknownMinimizer atomic.Int64
	candidates       atomic.Int64
	outOfBounds      atomic.Int64
	mismatches       atomic.Int64
	matches          atomic.Int64
}

// QueryStats is a point-in-time snapshot of the query funnel.
type QueryStats struct {
	// Queries is the total number of count/locate calls that passed
	// validation.
	Queries int64
	// TooShort counts queries answered by the direct-scan fallback because
	// the pattern was shorter than one minimizer window.
	TooShort int64
	// UnknownMinimizer counts sketched queries whose token sequence does not
	// occur in the skeleton at all.
	UnknownMinimizer int64
	// Candidates is the total number of skeleton hits before verification.
	Candidates int64
	// OutOfBounds counts candidates whose implied match would fall outside
	// the sequence.
	OutOfBounds int64
	// Mismatches counts candidates discarded by exact verification.
	Mismatches int64
	// Matches is the total number of verified matches returned.
	Matches int64
}

// Stats returns a snapshot of the query funnel counters.
func (x *Index) Stats() QueryStats {
	if x == nil {
		return QueryStats{}
	}
	return QueryStats{
		Queries:          x.stats.queries.Load(),
		TooShort:         x.stats.tooShort.Load(),
		UnknownMinimizer: x.stats.unknownMinimizer.Load(),
		Candidates:       x.stats.candidates.Load(),
		OutOfBounds:      x.stats.outOfBounds.Load(),
		Mismatches:       x.stats.mismatches.Load(),
		Matches:          x.stats.matches.Load(),
	}
}
