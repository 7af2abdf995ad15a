package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uindex/testutil"
)

func encodeDNA(t *testing.T, s string) CodeSlice {
	t.Helper()
	codes := make([]uint8, len(s))
	for i, b := range s {
		switch b {
		case 'A':
			codes[i] = 0
		case 'C':
			codes[i] = 1
		case 'G':
			codes[i] = 2
		case 'T':
			codes[i] = 3
		default:
			t.Fatalf("bad symbol %q", b)
		}
	}
	return codes
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		k, w    int
		bits    uint
		wantErr bool
	}{
		{"Valid", 16, 8, 2, false},
		{"MaxK", 32, 1, 2, false},
		{"ZeroK", 0, 8, 2, true},
		{"ZeroW", 16, 0, 2, true},
		{"TokenOverflow", 33, 8, 2, true},
		{"WideAlphabet", 12, 4, 5, false},
		{"WideAlphabetOverflow", 13, 4, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.k, tt.w, tt.bits)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSketchTooShort(t *testing.T) {
	s, err := New(3, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Span())

	assert.Nil(t, s.Sketch(encodeDNA(t, "ACG"), 1))
	assert.NotNil(t, s.Sketch(encodeDNA(t, "ACGT"), 1))
}

func TestSketchInvariants(t *testing.T) {
	rng := testutil.NewRNG(42)
	seq := rng.Sequence(5000, "ACGT")
	codes := encodeDNA(t, string(seq))

	for _, params := range []struct{ k, w int }{{3, 2}, {8, 5}, {16, 11}, {31, 3}} {
		s, err := New(params.k, params.w, 2)
		require.NoError(t, err)

		anchors := s.Sketch(codes, 1)
		require.NotEmpty(t, anchors)

		for i := 1; i < len(anchors); i++ {
			gap := anchors[i].Pos - anchors[i-1].Pos
			assert.Greater(t, gap, 0, "positions must be strictly increasing (k=%d w=%d)", params.k, params.w)
			assert.LessOrEqual(t, gap, params.w, "no window may be skipped (k=%d w=%d)", params.k, params.w)
		}

		// Every token must equal the packed k-mer at its position.
		for _, a := range anchors {
			assert.Equal(t, s.kmerAt(codes, a.Pos), a.Token)
		}
	}
}

func TestSketchDeterministic(t *testing.T) {
	rng := testutil.NewRNG(7)
	codes := encodeDNA(t, string(rng.Sequence(200_000, "ACGT")))

	s, err := New(16, 8, 2)
	require.NoError(t, err)

	base := s.Sketch(codes, 1)
	for _, procs := range []int{2, 3, 8, 64} {
		assert.Equal(t, base, s.Sketch(codes, procs), "procs=%d", procs)
	}
}

func TestSketchLeftmostTieBreak(t *testing.T) {
	// A run of identical k-mers has all-equal window keys; the leftmost
	// position must win in every window, advancing one step per slide.
	s, err := New(3, 4, 2)
	require.NoError(t, err)

	anchors := s.Sketch(encodeDNA(t, "AAAAAAAA"), 1)
	require.Len(t, anchors, 3)
	for i, a := range anchors {
		assert.Equal(t, i, a.Pos)
		assert.Equal(t, uint64(0), a.Token)
	}
}

func TestSketchSubstringContiguity(t *testing.T) {
	// The anchors of a substring (windows fully inside it) must appear as a
	// contiguous run of reference anchors. This is what makes skeleton
	// search complete.
	rng := testutil.NewRNG(11)
	seq := rng.Sequence(2000, "ACGT")
	codes := encodeDNA(t, string(seq))

	s, err := New(8, 5, 2)
	require.NoError(t, err)
	ref := s.Sketch(codes, 1)

	for trial := 0; trial < 50; trial++ {
		m := s.Span() + rng.Intn(100)
		start := rng.Intn(len(seq) - m + 1)
		sub := s.Sketch(codes[start:start+m], 1)
		require.NotEmpty(t, sub)

		// Find the reference anchor matching the substring's first anchor.
		first := sub[0].Pos + start
		at := -1
		for i, a := range ref {
			if a.Pos == first {
				at = i
				break
			}
		}
		require.GreaterOrEqual(t, at, 0, "substring anchor missing from reference sketch")

		for i, a := range sub {
			require.Less(t, at+i, len(ref))
			assert.Equal(t, a.Pos+start, ref[at+i].Pos)
			assert.Equal(t, a.Token, ref[at+i].Token)
		}
	}
}

func TestTokensPositions(t *testing.T) {
	anchors := []Anchor{{Token: 5, Pos: 1}, {Token: 9, Pos: 4}}
	assert.Equal(t, []uint64{5, 9}, Tokens(anchors))
	assert.Equal(t, []uint64{1, 4}, Positions(anchors))
}

func BenchmarkSketch(b *testing.B) {
	rng := testutil.NewRNG(1)
	codes := CodeSlice(make([]uint8, 1_000_000))
	for i := range codes {
		codes[i] = uint8(rng.Intn(4))
	}
	s, _ := New(16, 8, 2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Sketch(codes, 1)
	}
}
