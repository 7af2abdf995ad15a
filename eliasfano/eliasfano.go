// Package eliasfano implements a succinct Elias-Fano representation of a
// strictly increasing integer sequence.
//
// Each value is split into low bits, stored flat, and a high part encoded in
// unary in a bit vector: the i-th value contributes a one at position
// high(v_i)+i, and bucket boundaries contribute zeros. Sampled one- and
// zero-positions give amortized O(1) Select and bucket-local Rank. Total
// space is n*(2+ceil(log2(u/n))) bits plus samples, close to the
// information-theoretic minimum for n values in [0, u).
package eliasfano

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrOutOfBounds indicates a Select index at or beyond Len().
	ErrOutOfBounds = errors.New("eliasfano: index out of bounds")

	// ErrNotMonotone indicates the input sequence is not strictly increasing.
	ErrNotMonotone = errors.New("eliasfano: sequence not strictly increasing")
)

// Position of every sampleRate-th one (and zero) in the upper bits is
// recorded so Select scans at most sampleRate/64 words.
const sampleRate = 256

// Sequence is an immutable Elias-Fano encoded monotone sequence.
type Sequence struct {
	n        int
	universe uint64
	lowBits  uint
	lowMask  uint64
	low      []uint64
	high     *bitset.BitSet
	highLen  uint
	ones     []uint32
	zeros    []uint32
}

// New encodes a strictly increasing sequence of values.
// An empty sequence is valid and yields a zero-length encoding.
func New(values []uint64) (*Sequence, error) {
	n := len(values)
	s := &Sequence{n: n}
	if n == 0 {
		s.high = bitset.New(0)
		return s, nil
	}

	s.universe = values[n-1] + 1
	s.lowBits = lowBitCount(s.universe, uint64(n))
	s.lowMask = (uint64(1) << s.lowBits) - 1

	numBuckets := uint((s.universe-1)>>s.lowBits) + 1
	s.highLen = uint(n) + numBuckets
	s.high = bitset.New(s.highLen)
	s.low = make([]uint64, (uint(n)*s.lowBits+63)/64)

	var prev uint64
	for i, v := range values {
		if i > 0 && v <= prev {
			return nil, fmt.Errorf("%w: value %d at index %d after %d", ErrNotMonotone, v, i, prev)
		}
		prev = v
		s.high.Set(uint(v>>s.lowBits) + uint(i))
		s.storeLow(i, v&s.lowMask)
	}
	s.buildSamples()

	return s, nil
}

// lowBitCount is the classic floor(log2(u/n)), clamped at zero.
func lowBitCount(universe, n uint64) uint {
	if universe <= n {
		return 0
	}
	return uint(bits.Len64(universe/n) - 1)
}

func (s *Sequence) storeLow(i int, v uint64) {
	if s.lowBits == 0 {
		return
	}
	bit := uint(i) * s.lowBits
	w, off := bit/64, bit%64
	s.low[w] |= v << off
	if off+s.lowBits > 64 {
		s.low[w+1] |= v >> (64 - off)
	}
}

func (s *Sequence) loadLow(i int) uint64 {
	if s.lowBits == 0 {
		return 0
	}
	bit := uint(i) * s.lowBits
	w, off := bit/64, bit%64
	v := s.low[w] >> off
	if off+s.lowBits > 64 {
		v |= s.low[w+1] << (64 - off)
	}
	return v & s.lowMask
}

func (s *Sequence) buildSamples() {
	words := s.high.Bytes()
	var oneRank, zeroRank int
	for w, word := range words {
		base := uint(w * 64)
		limit := s.highLen - base
		for b := uint(0); b < 64 && b < limit; b++ {
			if word&(1<<b) != 0 {
				if oneRank%sampleRate == 0 {
					s.ones = append(s.ones, uint32(base+b))
				}
				oneRank++
			} else {
				if zeroRank%sampleRate == 0 {
					s.zeros = append(s.zeros, uint32(base+b))
				}
				zeroRank++
			}
		}
	}
}

// Len returns the number of encoded values.
func (s *Sequence) Len() int { return s.n }

// Universe returns one past the largest encoded value (0 when empty).
func (s *Sequence) Universe() uint64 { return s.universe }

// Select returns the i-th encoded value.
func (s *Sequence) Select(i int) (uint64, error) {
	if i < 0 || i >= s.n {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrOutOfBounds, i, s.n)
	}
	pos := s.selectBit(i, true)
	return (uint64(pos-uint(i)) << s.lowBits) | s.loadLow(i), nil
}

// Rank returns the largest index i with Select(i) <= x. The second return
// is false when x precedes the first encoded value (or the sequence is
// empty); the index is not meaningful in that case.
func (s *Sequence) Rank(x uint64) (int, bool) {
	if s.n == 0 {
		return 0, false
	}
	if x >= s.universe-1 {
		return s.n - 1, true
	}

	h := uint(x >> s.lowBits)
	// Values with a high part below h all precede x; they are exactly the
	// ones before the h-th zero in the upper bits.
	var before int
	if h > 0 {
		before = int(s.selectBit(int(h-1), false)) - int(h-1)
	}
	// Walk bucket h backwards comparing low bits.
	end := int(s.selectBit(int(h), false)) - int(h)
	xlow := x & s.lowMask
	for i := end - 1; i >= before; i-- {
		if s.loadLow(i) <= xlow {
			return i, true
		}
	}
	if before == 0 {
		return 0, false
	}
	return before - 1, true
}

// selectBit returns the position of the i-th one (or zero) in the upper
// bits, scanning words from the nearest sample.
func (s *Sequence) selectBit(i int, one bool) uint {
	samples := s.ones
	if !one {
		samples = s.zeros
	}
	start := uint(samples[i/sampleRate])
	remain := i % sampleRate

	words := s.high.Bytes()
	w := start / 64
	// Mask off bits before the sample position.
	word := words[w] >> (start % 64) << (start % 64)
	for {
		cur := word
		if !one {
			cur = ^word & fullWordMask(uint(w), s.highLen)
			if w == start/64 {
				cur &= ^uint64(0) << (start % 64)
			}
		}
		c := bits.OnesCount64(cur)
		if remain < c {
			for ; ; cur &= cur - 1 {
				if remain == 0 {
					return uint(w)*64 + uint(bits.TrailingZeros64(cur))
				}
				remain--
			}
		}
		remain -= c
		w++
		word = words[w]
	}
}

// fullWordMask masks off bits beyond the logical bit vector length in the
// final word, so complemented scans do not count phantom zeros.
func fullWordMask(w, length uint) uint64 {
	if (w+1)*64 <= length {
		return ^uint64(0)
	}
	return (uint64(1) << (length - w*64)) - 1
}
