package sequence

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds indicates an out-of-range access on a Store.
// It is recoverable and is never surfaced by a well-formed build or query.
var ErrOutOfBounds = errors.New("sequence: index out of bounds")

// Store holds the immutable packed reference sequence.
//
// Symbols are stored as dense alphabet codes, packed into 64-bit words
// without crossing word boundaries. A Store is created once at build time
// and never mutated, so it is safe to share between any number of
// concurrent readers.
type Store struct {
	alpha     *Alphabet
	words     []uint64
	n         int
	perWord   int
	bits      uint
	mask      uint64
}

// Pack encodes and packs raw input bytes into a Store.
// It fails with *ErrInvalidSymbol on the first symbol outside the alphabet.
func Pack(data []byte, alpha *Alphabet) (*Store, error) {
	s := newStore(alpha, len(data))
	for i, b := range data {
		c := alpha.codes[b]
		if c < 0 {
			return nil, &ErrInvalidSymbol{Symbol: b, Offset: i}
		}
		s.set(i, uint8(c))
	}
	return s, nil
}

// FromWords reconstructs a Store from its packed word representation.
// Used when loading a persisted index; validates the word count and that
// every stored code is within the alphabet.
func FromWords(alpha *Alphabet, words []uint64, n int) (*Store, error) {
	s := newStore(alpha, n)
	if len(words) != len(s.words) {
		return nil, fmt.Errorf("packed sequence has %d words, want %d", len(words), len(s.words))
	}
	copy(s.words, words)
	limit := uint64(alpha.Len())
	for i := 0; i < n; i++ {
		if uint64(s.Code(i)) >= limit {
			return nil, fmt.Errorf("packed sequence contains invalid code at offset %d", i)
		}
	}
	return s, nil
}

func newStore(alpha *Alphabet, n int) *Store {
	bits := alpha.Bits()
	perWord := int(64 / bits)
	numWords := (n + perWord - 1) / perWord
	return &Store{
		alpha:   alpha,
		words:   make([]uint64, numWords),
		n:       n,
		perWord: perWord,
		bits:    bits,
		mask:    (uint64(1) << bits) - 1,
	}
}

func (s *Store) set(i int, code uint8) {
	w, off := i/s.perWord, uint(i%s.perWord)*s.bits
	s.words[w] |= uint64(code) << off
}

// Len returns the sequence length in symbols.
func (s *Store) Len() int { return s.n }

// Alphabet returns the alphabet the sequence is encoded with.
func (s *Store) Alphabet() *Alphabet { return s.alpha }

// Words returns the packed word representation for persistence.
// The returned slice must not be modified.
func (s *Store) Words() []uint64 { return s.words }

// Code returns the dense code of the i-th symbol without bounds checking.
// Callers must guarantee 0 <= i < Len().
func (s *Store) Code(i int) uint8 {
	w, off := i/s.perWord, uint(i%s.perWord)*s.bits
	return uint8((s.words[w] >> off) & s.mask)
}

// Get returns the i-th symbol, decoded.
func (s *Store) Get(i int) (byte, error) {
	if i < 0 || i >= s.n {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrOutOfBounds, i, s.n)
	}
	return s.alpha.symbols[s.Code(i)], nil
}

// Range decodes the half-open symbol range [start, end).
func (s *Store) Range(start, end int) ([]byte, error) {
	if start < 0 || end < start || end > s.n {
		return nil, fmt.Errorf("%w: [%d, %d) (len %d)", ErrOutOfBounds, start, end, s.n)
	}
	out := make([]byte, end-start)
	for i := range out {
		out[i] = s.alpha.symbols[s.Code(start+i)]
	}
	return out, nil
}

// MatchCodes reports whether the code sequence starting at start equals
// codes. Returns false if the range does not fit inside the sequence.
func (s *Store) MatchCodes(start int, codes []uint8) bool {
	if start < 0 || start+len(codes) > s.n {
		return false
	}
	for i, c := range codes {
		if s.Code(start+i) != c {
			return false
		}
	}
	return true
}
