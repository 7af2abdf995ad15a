package skeleton

import (
	"encoding/binary"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

const (
	// Occ checkpoint spacing in BWT rows.
	fmOccSample = 128
	// Text positions divisible by this are kept in the suffix sample.
	// Equal to the token byte width so every token boundary can be sampled.
	fmSASample = tokenBytes
	// Tokens are flattened big-endian so byte order equals token order.
	tokenBytes = 8
	// Byte symbols are shifted by one to make room for the sentinel at 0.
	fmSymbols = 257
)

// FMIndex is an FM-index-style structure over the token sequence.
//
// Tokens are flattened to bytes and terminated with a unique sentinel; the
// structure keeps the BWT with checkpointed occurrence counts and a sampled
// suffix array. Pattern search is standard backward search; byte-level hits
// that do not fall on a token boundary are filtered out, so results are
// exact at token granularity.
type FMIndex struct {
	numTokens int
	size      int // flattened length including sentinel
	bwt       []uint16
	counts    [fmSymbols + 1]uint32
	occ       []uint32 // fmSymbols counters per checkpoint
	sampled   *bitset.BitSet
	samples   []uint32
}

// NewFMIndex builds the structure over tokens. Construction is a
// deterministic comparison sort over the flattened text.
func NewFMIndex(tokens []uint64) *FMIndex {
	text := flattenTokens(tokens)
	size := len(text)

	sa := make([]int32, size)
	for i := range sa {
		sa[i] = int32(i)
	}
	sort.Slice(sa, func(i, j int) bool {
		a, b := int(sa[i]), int(sa[j])
		for a < size && b < size {
			if text[a] != text[b] {
				return text[a] < text[b]
			}
			a++
			b++
		}
		// The sentinel makes suffixes distinct; only equal indexes tie.
		return a > b
	})

	fm := &FMIndex{
		numTokens: len(tokens),
		size:      size,
		bwt:       make([]uint16, size),
		sampled:   bitset.New(uint(size)),
	}

	for row, p := range sa {
		prev := int(p) - 1
		if prev < 0 {
			prev = size - 1
		}
		fm.bwt[row] = text[prev]
		if p%fmSASample == 0 {
			fm.sampled.Set(uint(row))
			fm.samples = append(fm.samples, uint32(p))
		}
	}

	for _, c := range text {
		fm.counts[c+1]++
	}
	for c := 1; c <= fmSymbols; c++ {
		fm.counts[c] += fm.counts[c-1]
	}

	numCheckpoints := (size + fmOccSample - 1) / fmOccSample
	fm.occ = make([]uint32, numCheckpoints*fmSymbols)
	var running [fmSymbols]uint32
	for i := 0; i < size; i++ {
		if i%fmOccSample == 0 {
			copy(fm.occ[(i/fmOccSample)*fmSymbols:], running[:])
		}
		running[fm.bwt[i]]++
	}

	return fm
}

// flattenTokens shifts every token byte up by one and appends the sentinel.
func flattenTokens(tokens []uint64) []uint16 {
	text := make([]uint16, len(tokens)*tokenBytes+1)
	var buf [tokenBytes]byte
	for i, t := range tokens {
		binary.BigEndian.PutUint64(buf[:], t)
		for j, b := range buf {
			text[i*tokenBytes+j] = uint16(b) + 1
		}
	}
	text[len(text)-1] = 0
	return text
}

// Type implements Index.
func (fm *FMIndex) Type() Type { return TypeFMIndex }

// Tokens cannot be recovered cheaply; the persisted form stores them
// separately, so the structure keeps none.

// rank returns the number of occurrences of symbol c in bwt[0:row).
func (fm *FMIndex) rank(c uint16, row int) uint32 {
	cp := row / fmOccSample
	r := fm.occ[cp*fmSymbols+int(c)]
	for i := cp * fmOccSample; i < row; i++ {
		if fm.bwt[i] == c {
			r++
		}
	}
	return r
}

// lf is the last-to-first mapping: the row of the text position immediately
// preceding the one at row.
func (fm *FMIndex) lf(row int) int {
	c := fm.bwt[row]
	return int(fm.counts[c] + fm.rank(c, row))
}

// backwardSearch returns the half-open BWT row range matching the flattened
// pattern bytes.
func (fm *FMIndex) backwardSearch(pattern []uint16) (int, int) {
	i := len(pattern) - 1
	c := pattern[i]
	sp, ep := int(fm.counts[c]), int(fm.counts[c+1])
	for i--; i >= 0 && sp < ep; i-- {
		c = pattern[i]
		sp = int(fm.counts[c] + fm.rank(c, sp))
		ep = int(fm.counts[c] + fm.rank(c, ep))
	}
	return sp, ep
}

// resolve walks LF steps from row until it hits a sampled suffix, then
// offsets back to the row's own text position.
func (fm *FMIndex) resolve(row int) int {
	steps := 0
	for !fm.sampled.Test(uint(row)) {
		row = fm.lf(row)
		steps++
	}
	return int(fm.samples[fm.sampled.Rank(uint(row))-1]) + steps
}

// Count implements Index. Alignment filtering requires resolving every hit,
// so counting costs the same as locating.
func (fm *FMIndex) Count(pattern []uint64) int {
	return len(fm.Locate(pattern))
}

// Locate implements Index.
func (fm *FMIndex) Locate(pattern []uint64) []uint32 {
	if len(pattern) == 0 || fm.numTokens == 0 {
		return nil
	}
	flat := flattenTokens(pattern)
	flat = flat[:len(flat)-1] // strip the sentinel

	sp, ep := fm.backwardSearch(flat)
	var out []uint32
	for row := sp; row < ep; row++ {
		p := fm.resolve(row)
		// Byte-level matches inside a token are collisions, not anchors.
		if p%tokenBytes != 0 {
			continue
		}
		if ord := p / tokenBytes; ord < fm.numTokens {
			out = append(out, uint32(ord))
		}
	}
	return out
}
