// Package sketch reduces a symbol sequence to its minimizer anchors.
//
// An anchor is the (token, position) pair of the smallest k-mer within a
// sliding window of w consecutive k-mer positions. The rule is a pure
// function of (k, w, k-mer content): the order is a 64-bit mix of the packed
// k-mer value, ties break to the leftmost position. The same rule is applied
// to the reference at build time and to every pattern at query time, so a
// pattern occurrence always sketches to a contiguous run of reference
// anchors (possibly preceded and followed by boundary anchors).
package sketch

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Anchor is one element of a sketch: the packed k-mer value selected as a
// window minimizer and its 0-based position in the source sequence.
type Anchor struct {
	Token uint64
	Pos   int
}

// Codes is a read-only view over a dense-coded symbol sequence.
// *sequence.Store implements it; CodeSlice adapts raw code slices.
type Codes interface {
	Len() int
	Code(i int) uint8
}

// CodeSlice adapts a plain code slice to the Codes interface.
type CodeSlice []uint8

func (c CodeSlice) Len() int         { return len(c) }
func (c CodeSlice) Code(i int) uint8 { return c[i] }

// Sketcher computes minimizer sketches for a fixed (k, w, alphabet width).
type Sketcher struct {
	k    int
	w    int
	bits uint
	mask uint64
}

// New creates a sketcher. The packed k-mer must fit a 64-bit token, so
// k*alphabetBits must not exceed 64.
func New(k, w int, alphabetBits uint) (*Sketcher, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if w < 1 {
		return nil, fmt.Errorf("w must be positive, got %d", w)
	}
	if uint(k)*alphabetBits > 64 {
		return nil, fmt.Errorf("k=%d with %d-bit symbols exceeds the 64-bit token width", k, alphabetBits)
	}

	return &Sketcher{
		k:    k,
		w:    w,
		bits: alphabetBits,
		mask: kmerMask(k, alphabetBits),
	}, nil
}

func kmerMask(k int, bits uint) uint64 {
	width := uint(k) * bits
	if width == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// K returns the anchor length.
func (s *Sketcher) K() int { return s.k }

// W returns the window width.
func (s *Sketcher) W() int { return s.w }

// Span returns k+w-1, the shortest sequence that contains one full window.
// Shorter inputs cannot be sketched.
func (s *Sketcher) Span() int { return s.k + s.w - 1 }

// Sketch computes the anchor sequence of codes.
//
// procs bounds the parallelism of the k-mer key precomputation; values below
// 2 keep the computation on the calling goroutine. The result is identical
// for every procs value: the window scan itself is sequential and the
// precomputed keys do not depend on chunk boundaries.
//
// Returns nil when codes is shorter than Span().
func (s *Sketcher) Sketch(codes Codes, procs int) []Anchor {
	n := codes.Len()
	if n < s.Span() {
		return nil
	}

	numKmers := n - s.k + 1
	keys := make([]uint64, numKmers)
	s.fillKeys(codes, keys, procs)

	// Sliding-window minimum over the keys with a monotone index deque.
	// Entries with equal keys are all kept so the front stays the leftmost
	// minimum of the current window.
	anchors := make([]Anchor, 0, numKmers/s.w+1)
	deque := make([]int, 0, s.w+1)
	last := -1
	for j := 0; j < numKmers; j++ {
		for len(deque) > 0 && keys[deque[len(deque)-1]] > keys[j] {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, j)
		if deque[0] <= j-s.w {
			deque = deque[1:]
		}
		if j < s.w-1 {
			continue
		}
		if min := deque[0]; min != last {
			anchors = append(anchors, Anchor{Token: s.kmerAt(codes, min), Pos: min})
			last = min
		}
	}

	return anchors
}

// Tokens projects the token component of a sketch.
func Tokens(anchors []Anchor) []uint64 {
	out := make([]uint64, len(anchors))
	for i, a := range anchors {
		out[i] = a.Token
	}
	return out
}

// Positions projects the position component of a sketch.
func Positions(anchors []Anchor) []uint64 {
	out := make([]uint64, len(anchors))
	for i, a := range anchors {
		out[i] = uint64(a.Pos)
	}
	return out
}

// fillKeys computes the window-order key of every k-mer.
func (s *Sketcher) fillKeys(codes Codes, keys []uint64, procs int) {
	if procs < 2 || len(keys) < minParallelKmers {
		s.fillKeyChunk(codes, keys, 0, len(keys))
		return
	}
	if max := runtime.GOMAXPROCS(0); procs > max {
		procs = max
	}

	chunk := (len(keys) + procs - 1) / procs
	g, _ := errgroup.WithContext(context.Background())
	for lo := 0; lo < len(keys); lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > len(keys) {
			hi = len(keys)
		}
		g.Go(func() error {
			s.fillKeyChunk(codes, keys, lo, hi)
			return nil
		})
	}
	// Workers only write disjoint key ranges and never fail.
	_ = g.Wait()
}

// Below this many k-mers the chunk setup costs more than it saves.
const minParallelKmers = 1 << 16

func (s *Sketcher) fillKeyChunk(codes Codes, keys []uint64, lo, hi int) {
	kmer := s.kmerAt(codes, lo)
	keys[lo] = mix64(kmer)
	for j := lo + 1; j < hi; j++ {
		kmer = ((kmer << s.bits) | uint64(codes.Code(j+s.k-1))) & s.mask
		keys[j] = mix64(kmer)
	}
}

// kmerAt packs the k symbols starting at pos into a token.
func (s *Sketcher) kmerAt(codes Codes, pos int) uint64 {
	var kmer uint64
	for i := 0; i < s.k; i++ {
		kmer = (kmer << s.bits) | uint64(codes.Code(pos+i))
	}
	return kmer
}

// mix64 is the splitmix64 finalizer. It gives the fixed total order on
// k-mers; using a mixed order instead of raw token value avoids the heavily
// skewed sampling that lexicographic minimizers produce on low-complexity
// sequences.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
