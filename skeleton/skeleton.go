// Package skeleton provides exact full-text search over the anchor token
// sequence of a sketch.
//
// The search structure sits behind a narrow capability interface so that any
// compliant exact-match implementation can be substituted without touching
// sketching, position translation, or query orchestration. Two
// implementations ship: a sparse suffix array (default) and an
// FM-index-style structure built on the BWT of the flattened token bytes.
//
// Guarantees are at token granularity: every contiguous occurrence of a
// token pattern is reported, none are missed, none are fabricated. Token
// collisions at the base level are resolved by the caller's verification
// step.
package skeleton

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTooLarge indicates the token sequence exceeds the 32-bit ordinal space.
	ErrTooLarge = errors.New("skeleton: token sequence exceeds 32-bit ordinal space")

	// ErrUnknownType indicates an unrecognized skeleton structure type.
	ErrUnknownType = errors.New("skeleton: unknown structure type")
)

// Index is the exact-match capability over a token sequence.
//
// Implementations are immutable after construction and safe for concurrent
// readers.
type Index interface {
	// Count returns the number of contiguous occurrences of pattern.
	Count(pattern []uint64) int

	// Locate returns the skeleton ordinals (anchor indexes in the sketch)
	// at which pattern occurs contiguously. Order is unspecified.
	Locate(pattern []uint64) []uint32

	// Type identifies the concrete structure for persistence.
	Type() Type
}

// Type identifies a skeleton structure implementation.
type Type uint8

const (
	// TypeSuffixArray is the sparse suffix array over tokens.
	TypeSuffixArray Type = iota + 1
	// TypeFMIndex is the BWT/rank structure over flattened token bytes.
	TypeFMIndex
)

// String returns a string representation of the Type.
func (t Type) String() string {
	switch t {
	case TypeSuffixArray:
		return "SuffixArray"
	case TypeFMIndex:
		return "FMIndex"
	default:
		return "Unknown"
	}
}

// Build constructs a skeleton index of the given type over tokens.
func Build(t Type, tokens []uint64) (Index, error) {
	if len(tokens) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d tokens", ErrTooLarge, len(tokens))
	}
	switch t {
	case TypeSuffixArray:
		return NewSuffixArray(tokens), nil
	case TypeFMIndex:
		return NewFMIndex(tokens), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}

// Rebuild reconstructs a skeleton index from a persisted token sequence and
// suffix order. For the suffix array type this skips the suffix sort; the
// FM-index derives everything from the tokens and ignores sa.
func Rebuild(t Type, tokens []uint64, sa []uint32) (Index, error) {
	switch t {
	case TypeSuffixArray:
		if len(sa) != len(tokens) {
			return nil, fmt.Errorf("skeleton: suffix array length %d does not match %d tokens", len(sa), len(tokens))
		}
		return &SuffixArray{tokens: tokens, sa: sa}, nil
	case TypeFMIndex:
		return NewFMIndex(tokens), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}
