// Package sequence provides the packed immutable reference sequence and its
// alphabet. The store owns the sequence for the lifetime of an index and
// offers O(1) random access to symbols and sub-ranges.
package sequence

import (
	"fmt"
	"math/bits"
)

// ErrInvalidSymbol indicates a symbol outside the declared alphabet.
type ErrInvalidSymbol struct {
	Symbol byte // Offending input byte
	Offset int  // 0-based offset in the input
}

func (e *ErrInvalidSymbol) Error() string {
	return fmt.Sprintf("invalid symbol %q at offset %d", e.Symbol, e.Offset)
}

// Alphabet maps raw input symbols to dense codes. Codes are assigned in the
// order symbols are declared, so two alphabets declared from the same string
// are interchangeable.
type Alphabet struct {
	symbols []byte
	codes   [256]int16
	bits    uint
}

// DNA is the standard four-letter nucleotide alphabet.
var DNA = MustAlphabet("ACGT")

// NewAlphabet creates an alphabet from the given symbol set.
// Symbols must be unique; the set must contain between 2 and 256 symbols.
func NewAlphabet(symbols string) (*Alphabet, error) {
	if len(symbols) < 2 {
		return nil, fmt.Errorf("alphabet needs at least 2 symbols, got %d", len(symbols))
	}
	if len(symbols) > 256 {
		return nil, fmt.Errorf("alphabet too large: %d symbols", len(symbols))
	}

	a := &Alphabet{
		symbols: []byte(symbols),
		bits:    uint(bits.Len(uint(len(symbols) - 1))),
	}
	for i := range a.codes {
		a.codes[i] = -1
	}
	for i := 0; i < len(symbols); i++ {
		if a.codes[symbols[i]] >= 0 {
			return nil, fmt.Errorf("duplicate symbol %q in alphabet", symbols[i])
		}
		a.codes[symbols[i]] = int16(i)
	}

	return a, nil
}

// MustAlphabet is like NewAlphabet but panics on error.
// Intended for package-level alphabet declarations.
func MustAlphabet(symbols string) *Alphabet {
	a, err := NewAlphabet(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// Len returns the number of symbols in the alphabet.
func (a *Alphabet) Len() int { return len(a.symbols) }

// Bits returns the number of bits used to encode one symbol.
func (a *Alphabet) Bits() uint { return a.bits }

// Symbols returns the declared symbol set in code order.
func (a *Alphabet) Symbols() []byte {
	out := make([]byte, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Code returns the dense code for a symbol, or false if the symbol is not
// part of the alphabet.
func (a *Alphabet) Code(symbol byte) (uint8, bool) {
	c := a.codes[symbol]
	if c < 0 {
		return 0, false
	}
	return uint8(c), true
}

// Symbol returns the symbol for a code. The code must be valid.
func (a *Alphabet) Symbol(code uint8) byte { return a.symbols[code] }

// Encode converts raw input bytes to dense codes.
// It fails with *ErrInvalidSymbol on the first symbol outside the alphabet.
func (a *Alphabet) Encode(data []byte) ([]uint8, error) {
	out := make([]uint8, len(data))
	for i, b := range data {
		c := a.codes[b]
		if c < 0 {
			return nil, &ErrInvalidSymbol{Symbol: b, Offset: i}
		}
		out[i] = uint8(c)
	}
	return out, nil
}
