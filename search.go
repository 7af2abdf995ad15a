package uindex

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/uindex/sketch"
)

// Count returns the number of exact occurrences of pattern in the reference
// sequence.
func (x *Index) Count(pattern []byte) (int, error) {
	start := time.Now()
	matches, err := x.locate(pattern)
	count := 0
	if matches != nil {
		count = int(matches.GetCardinality())
	}
	x.metrics().RecordCount(time.Since(start), err)
	x.logger().LogQuery(context.Background(), "count", len(pattern), count, err)
	return count, err
}

// Locate returns every start offset at which pattern occurs in the
// reference sequence, ascending and unique. A pattern that does not occur
// yields an empty, non-nil slice.
func (x *Index) Locate(pattern []byte) ([]int, error) {
	start := time.Now()
	matches, err := x.locate(pattern)
	var out []int
	if err == nil {
		out = make([]int, 0, matches.GetCardinality())
		it := matches.Iterator()
		for it.HasNext() {
			out = append(out, int(it.Next()))
		}
	}
	x.metrics().RecordLocate(len(out), time.Since(start), err)
	x.logger().LogQuery(context.Background(), "locate", len(pattern), len(out), err)
	return out, err
}

// locate runs the shared query pipeline: validate, sketch, skeleton search,
// translate, verify. The returned bitmap holds verified offsets.
func (x *Index) locate(pattern []byte) (*roaring.Bitmap, error) {
	if !x.ready() {
		return nil, ErrNotBuilt
	}
	if len(pattern) == 0 {
		return nil, ErrInvalidQuery
	}

	codes, err := x.store.Alphabet().Encode(pattern)
	if err != nil {
		return nil, translateError(err)
	}

	x.stats.queries.Add(1)
	matches := roaring.New()

	if len(pattern) > x.store.Len() {
		return matches, nil
	}

	// Patterns without a full minimizer window cannot be sketched; they are
	// short, so a direct scan stays cheap.
	if len(pattern) < x.sketcher.Span() {
		x.stats.tooShort.Add(1)
		x.scan(codes, matches)
		return matches, nil
	}

	anchors := x.sketcher.Sketch(sketch.CodeSlice(codes), 1)
	offset := anchors[0].Pos
	ordinals := x.skel.Locate(sketch.Tokens(anchors))
	if len(ordinals) == 0 {
		x.stats.unknownMinimizer.Add(1)
		return matches, nil
	}

	x.stats.candidates.Add(int64(len(ordinals)))
	for _, ord := range ordinals {
		pos, err := x.trans.Select(int(ord))
		if err != nil {
			// Skeleton ordinals always index the translator; a failure here
			// would be an internal invariant violation, not user input.
			return nil, err
		}
		// The match implied by this anchor starts offset symbols earlier.
		mstart := int(pos) - offset
		if mstart < 0 || mstart+len(codes) > x.store.Len() {
			x.stats.outOfBounds.Add(1)
			continue
		}
		if !x.store.MatchCodes(mstart, codes) {
			// Routine: token collisions and window misalignment are expected
			// and filtered, never surfaced.
			x.stats.mismatches.Add(1)
			continue
		}
		matches.Add(uint32(mstart))
	}
	x.stats.matches.Add(int64(matches.GetCardinality()))

	return matches, nil
}

// scan is the verification-only fallback for patterns too short to sketch.
func (x *Index) scan(codes []uint8, matches *roaring.Bitmap) {
	last := x.store.Len() - len(codes)
	for i := 0; i <= last; i++ {
		if x.store.MatchCodes(i, codes) {
			matches.Add(uint32(i))
		}
	}
	x.stats.matches.Add(int64(matches.GetCardinality()))
}

func (x *Index) metrics() MetricsCollector {
	if x == nil || x.opts.metrics == nil {
		return NoopMetricsCollector{}
	}
	return x.opts.metrics
}

func (x *Index) logger() *Logger {
	if x == nil || x.opts.logger == nil {
		return NoopLogger()
	}
	return x.opts.logger
}
