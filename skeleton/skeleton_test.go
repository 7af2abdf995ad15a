package skeleton

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uindex/testutil"
)

// naiveLocate scans the token sequence directly.
func naiveLocate(tokens, pattern []uint64) []uint32 {
	var out []uint32
	for i := 0; i+len(pattern) <= len(tokens); i++ {
		match := true
		for j, p := range pattern {
			if tokens[i+j] != p {
				match = false
				break
			}
		}
		if match {
			out = append(out, uint32(i))
		}
	}
	return out
}

func randomTokens(rng *testutil.RNG, n, distinct int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		// Spread values across the 64-bit range so flattened bytes exercise
		// more than the low byte.
		out[i] = uint64(rng.Intn(distinct)) * 0x9e3779b97f4a7c15
	}
	return out
}

func sorted(s []uint32) []uint32 {
	if len(s) == 0 {
		return nil
	}
	out := make([]uint32, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestBuildUnknownType(t *testing.T) {
	_, err := Build(Type(99), []uint64{1, 2, 3})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "SuffixArray", TypeSuffixArray.String())
	assert.Equal(t, "FMIndex", TypeFMIndex.String())
	assert.Equal(t, "Unknown", Type(99).String())
}

func TestLocateAgainstNaive(t *testing.T) {
	rng := testutil.NewRNG(21)

	for _, typ := range []Type{TypeSuffixArray, TypeFMIndex} {
		t.Run(typ.String(), func(t *testing.T) {
			for _, tc := range []struct {
				n        int
				distinct int
			}{
				{0, 1}, {1, 1}, {50, 2}, {500, 4}, {500, 100}, {2000, 16},
			} {
				tokens := randomTokens(rng, tc.n, tc.distinct)
				idx, err := Build(typ, tokens)
				require.NoError(t, err)

				for trial := 0; trial < 40; trial++ {
					m := 1 + rng.Intn(5)
					var pattern []uint64
					if tc.n > m && trial%4 != 0 {
						// Pattern drawn from the sequence: guaranteed hits.
						start := rng.Intn(tc.n - m)
						pattern = append(pattern, tokens[start:start+m]...)
					} else {
						pattern = randomTokens(rng, m, tc.distinct+1)
					}

					want := naiveLocate(tokens, pattern)
					got := idx.Locate(pattern)
					require.Equal(t, want, sorted(got), "type=%s n=%d pattern=%v", typ, tc.n, pattern)
					require.Equal(t, len(want), idx.Count(pattern))
				}
			}
		})
	}
}

func TestEmptyPattern(t *testing.T) {
	tokens := []uint64{1, 2, 3}
	for _, typ := range []Type{TypeSuffixArray, TypeFMIndex} {
		idx, err := Build(typ, tokens)
		require.NoError(t, err)
		assert.Nil(t, idx.Locate(nil))
		assert.Equal(t, 0, idx.Count(nil))
	}
}

func TestSuffixArrayDeterministic(t *testing.T) {
	rng := testutil.NewRNG(5)
	tokens := randomTokens(rng, 3000, 8)

	a := NewSuffixArray(tokens)
	b := NewSuffixArray(tokens)
	assert.Equal(t, a.SA(), b.SA())
}

func TestSuffixArrayOrder(t *testing.T) {
	rng := testutil.NewRNG(17)
	tokens := randomTokens(rng, 500, 3)
	sa := NewSuffixArray(tokens)

	order := sa.SA()
	require.Len(t, order, len(tokens))
	for i := 1; i < len(order); i++ {
		assert.Negative(t, compareSuffixes(tokens, int(order[i-1]), int(order[i])))
	}
}

func TestRebuild(t *testing.T) {
	rng := testutil.NewRNG(33)
	tokens := randomTokens(rng, 800, 6)
	pattern := tokens[100:103]

	sa := NewSuffixArray(tokens)
	re, err := Rebuild(TypeSuffixArray, tokens, sa.SA())
	require.NoError(t, err)
	assert.Equal(t, sorted(sa.Locate(pattern)), sorted(re.Locate(pattern)))

	_, err = Rebuild(TypeSuffixArray, tokens, sa.SA()[:10])
	assert.Error(t, err)

	refm, err := Rebuild(TypeFMIndex, tokens, nil)
	require.NoError(t, err)
	assert.Equal(t, sorted(sa.Locate(pattern)), sorted(refm.Locate(pattern)))
}

func TestFMIndexSingleToken(t *testing.T) {
	tokens := []uint64{42}
	fm := NewFMIndex(tokens)

	assert.Equal(t, []uint32{0}, fm.Locate([]uint64{42}))
	assert.Empty(t, fm.Locate([]uint64{41}))
	assert.Equal(t, 1, fm.Count([]uint64{42}))
}

func BenchmarkSuffixArrayLocate(b *testing.B) {
	rng := testutil.NewRNG(1)
	tokens := randomTokens(rng, 100_000, 1000)
	idx := NewSuffixArray(tokens)
	pattern := tokens[5000:5003]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Locate(pattern)
	}
}
