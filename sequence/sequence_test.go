package sequence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlphabet(t *testing.T) {
	tests := []struct {
		name    string
		symbols string
		wantErr bool
	}{
		{"DNA", "ACGT", false},
		{"Protein", "ACDEFGHIKLMNPQRSTVWY", false},
		{"Binary", "01", false},
		{"Empty", "", true},
		{"Single", "A", true},
		{"Duplicate", "ACGA", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAlphabet(tt.symbols)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.symbols), a.Len())
		})
	}
}

func TestAlphabetBits(t *testing.T) {
	tests := []struct {
		symbols string
		bits    uint
	}{
		{"01", 1},
		{"ACG", 2},
		{"ACGT", 2},
		{"ACGTN", 3},
		{"ACDEFGHIKLMNPQRSTVWY", 5},
	}

	for _, tt := range tests {
		a := MustAlphabet(tt.symbols)
		assert.Equal(t, tt.bits, a.Bits(), "symbols %q", tt.symbols)
	}
}

func TestAlphabetCode(t *testing.T) {
	a := DNA

	c, ok := a.Code('G')
	require.True(t, ok)
	assert.Equal(t, uint8(2), c)
	assert.Equal(t, byte('G'), a.Symbol(c))

	_, ok = a.Code('N')
	assert.False(t, ok)
}

func TestAlphabetEncode(t *testing.T) {
	codes, err := DNA.Encode([]byte("ACGT"))
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 1, 2, 3}, codes)

	_, err = DNA.Encode([]byte("ACXT"))
	var is *ErrInvalidSymbol
	require.ErrorAs(t, err, &is)
	assert.Equal(t, byte('X'), is.Symbol)
	assert.Equal(t, 2, is.Offset)
}

func TestPackRoundTrip(t *testing.T) {
	data := []byte("ACGTACGTTGCA")
	s, err := Pack(data, DNA)
	require.NoError(t, err)

	assert.Equal(t, len(data), s.Len())
	for i, b := range data {
		got, err := s.Get(i)
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}

	decoded, err := s.Range(0, s.Len())
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	mid, err := s.Range(4, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("ACGT"), mid)
}

func TestPackInvalidSymbol(t *testing.T) {
	_, err := Pack([]byte("ACGN"), DNA)
	var is *ErrInvalidSymbol
	require.ErrorAs(t, err, &is)
	assert.Equal(t, byte('N'), is.Symbol)
	assert.Equal(t, 3, is.Offset)
}

func TestStoreBounds(t *testing.T) {
	s, err := Pack([]byte("ACGT"), DNA)
	require.NoError(t, err)

	_, err = s.Get(-1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = s.Get(4)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = s.Range(2, 5)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = s.Range(3, 2)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	// Bounds failures must be recoverable errors, never panics.
	got, err := s.Range(0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("ACGT"), got)
}

func TestMatchCodes(t *testing.T) {
	s, err := Pack([]byte("ACGTACGT"), DNA)
	require.NoError(t, err)

	codes, err := DNA.Encode([]byte("GTAC"))
	require.NoError(t, err)

	assert.True(t, s.MatchCodes(2, codes))
	assert.False(t, s.MatchCodes(3, codes))
	assert.False(t, s.MatchCodes(-1, codes))
	assert.False(t, s.MatchCodes(6, codes)) // would run past the end
}

func TestFromWords(t *testing.T) {
	data := []byte("ACGTACGTTGCAACGT")
	s, err := Pack(data, DNA)
	require.NoError(t, err)

	restored, err := FromWords(DNA, s.Words(), s.Len())
	require.NoError(t, err)

	decoded, err := restored.Range(0, restored.Len())
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	_, err = FromWords(DNA, s.Words()[:0], s.Len())
	assert.Error(t, err)
}

func TestFromWordsInvalidCode(t *testing.T) {
	alpha := MustAlphabet("ACG") // 2-bit codes, but code 3 is invalid
	s, err := Pack([]byte("ACGACG"), alpha)
	require.NoError(t, err)

	words := make([]uint64, len(s.Words()))
	copy(words, s.Words())
	words[0] |= 3 // corrupt the first symbol

	_, err = FromWords(alpha, words, s.Len())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrOutOfBounds))
}
