package skeleton

import "sort"

// SuffixArray is an exact-match structure over the token sequence: the
// lexicographically sorted order of all token suffixes. Pattern search is
// two binary searches for the boundaries of the matching suffix range.
type SuffixArray struct {
	tokens []uint64
	sa     []uint32
}

// NewSuffixArray builds the suffix array over tokens. Construction is a
// deterministic comparison sort; identical tokens always yield an identical
// suffix order.
func NewSuffixArray(tokens []uint64) *SuffixArray {
	sa := make([]uint32, len(tokens))
	for i := range sa {
		sa[i] = uint32(i)
	}
	sort.Slice(sa, func(i, j int) bool {
		return compareSuffixes(tokens, int(sa[i]), int(sa[j])) < 0
	})
	return &SuffixArray{tokens: tokens, sa: sa}
}

// compareSuffixes orders two token suffixes lexicographically; a proper
// prefix sorts before its extensions.
func compareSuffixes(tokens []uint64, a, b int) int {
	for a < len(tokens) && b < len(tokens) {
		if tokens[a] != tokens[b] {
			if tokens[a] < tokens[b] {
				return -1
			}
			return 1
		}
		a++
		b++
	}
	switch {
	case a < len(tokens):
		return 1
	case b < len(tokens):
		return -1
	default:
		return 0
	}
}

// comparePrefix compares the suffix starting at suf against pattern,
// considering only the first len(pattern) tokens of the suffix. A suffix
// shorter than the pattern sorts before it.
func comparePrefix(tokens []uint64, suf int, pattern []uint64) int {
	for i, p := range pattern {
		if suf+i >= len(tokens) {
			return -1
		}
		if t := tokens[suf+i]; t != p {
			if t < p {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Type implements Index.
func (s *SuffixArray) Type() Type { return TypeSuffixArray }

// Tokens returns the underlying token sequence. Must not be modified.
func (s *SuffixArray) Tokens() []uint64 { return s.tokens }

// SA returns the suffix order for persistence. Must not be modified.
func (s *SuffixArray) SA() []uint32 { return s.sa }

// searchRange returns the half-open suffix array range matching pattern.
func (s *SuffixArray) searchRange(pattern []uint64) (int, int) {
	lo := sort.Search(len(s.sa), func(i int) bool {
		return comparePrefix(s.tokens, int(s.sa[i]), pattern) >= 0
	})
	hi := sort.Search(len(s.sa), func(i int) bool {
		return comparePrefix(s.tokens, int(s.sa[i]), pattern) > 0
	})
	return lo, hi
}

// Count implements Index.
func (s *SuffixArray) Count(pattern []uint64) int {
	if len(pattern) == 0 {
		return 0
	}
	lo, hi := s.searchRange(pattern)
	return hi - lo
}

// Locate implements Index.
func (s *SuffixArray) Locate(pattern []uint64) []uint32 {
	if len(pattern) == 0 {
		return nil
	}
	lo, hi := s.searchRange(pattern)
	if lo >= hi {
		return nil
	}
	out := make([]uint32, hi-lo)
	copy(out, s.sa[lo:hi])
	return out
}
