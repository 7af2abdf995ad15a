package uindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/uindex/eliasfano"
	"github.com/hupe1980/uindex/persistence"
	"github.com/hupe1980/uindex/sequence"
	"github.com/hupe1980/uindex/sketch"
	"github.com/hupe1980/uindex/skeleton"
)

// WriteTo serializes the index to w. The blob is self-contained: Read
// restores an index that answers every query identically.
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	if !x.ready() {
		return 0, ErrNotBuilt
	}
	start := time.Now()

	cw := &countingWriter{w: w}
	err := x.write(cw)
	x.metrics().RecordSnapshot(time.Since(start), err)
	x.logger().LogSnapshot(context.Background(), "serialize", cw.n, err)

	return cw.n, err
}

func (x *Index) write(w io.Writer) error {
	sw, err := persistence.NewSectionWriter(w, x.opts.compression)
	if err != nil {
		return err
	}

	if err := sw.WriteHeader(&persistence.FileHeader{
		SkeletonType: uint8(x.skel.Type()),
		K:            uint32(x.sketcher.K()),
		W:            uint32(x.sketcher.W()),
		AlphabetLen:  uint32(x.store.Alphabet().Len()),
		SequenceLen:  uint64(x.store.Len()),
		AnchorCount:  uint64(x.trans.Len()),
	}); err != nil {
		return err
	}

	if err := sw.WriteSection(persistence.SectionAlphabet, x.store.Alphabet().Symbols()); err != nil {
		return err
	}
	if err := sw.WriteUint64Section(persistence.SectionSequence, x.store.Words()); err != nil {
		return err
	}
	if err := sw.WriteUint64Section(persistence.SectionTokens, x.tokens); err != nil {
		return err
	}
	positions := make([]uint64, x.trans.Len())
	for i := range positions {
		// Select cannot fail for i < Len.
		positions[i], _ = x.trans.Select(i)
	}
	if err := sw.WriteUint64Section(persistence.SectionPositions, positions); err != nil {
		return err
	}
	// The FM-index rebuilds from tokens; only the suffix array persists its
	// suffix order.
	var sa []uint32
	if s, ok := x.skel.(*skeleton.SuffixArray); ok {
		sa = s.SA()
	}
	if err := sw.WriteUint32Section(persistence.SectionSuffixArray, sa); err != nil {
		return err
	}

	return sw.Finish()
}

// Read deserializes an index previously written with WriteTo.
//
// Corrupted or incompatible blobs fail fast with a persistence error; no
// partial or repaired index is ever returned.
func Read(r io.Reader, optFns ...Option) (*Index, error) {
	opts := applyOptions(optFns)
	start := time.Now()

	idx, err := read(r, opts)
	opts.metrics.RecordSnapshot(time.Since(start), err)
	opts.logger.LogSnapshot(context.Background(), "deserialize", 0, err)
	if err != nil {
		return nil, err
	}

	return idx, nil
}

func read(r io.Reader, opts options) (*Index, error) {
	sr := persistence.NewSectionReader(r)

	header, err := sr.ReadHeader()
	if err != nil {
		return nil, err
	}

	symbols, err := sr.ReadSection(persistence.SectionAlphabet)
	if err != nil {
		return nil, err
	}
	if len(symbols) != int(header.AlphabetLen) {
		return nil, fmt.Errorf("%w: alphabet section has %d symbols, header says %d",
			persistence.ErrCorrupt, len(symbols), header.AlphabetLen)
	}
	alpha, err := sequence.NewAlphabet(string(symbols))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", persistence.ErrCorrupt, err)
	}

	words, err := sr.ReadUint64Section(persistence.SectionSequence)
	if err != nil {
		return nil, err
	}
	store, err := sequence.FromWords(alpha, words, int(header.SequenceLen))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", persistence.ErrCorrupt, err)
	}

	tokens, err := sr.ReadUint64Section(persistence.SectionTokens)
	if err != nil {
		return nil, err
	}
	positions, err := sr.ReadUint64Section(persistence.SectionPositions)
	if err != nil {
		return nil, err
	}
	sa, err := sr.ReadUint32Section(persistence.SectionSuffixArray)
	if err != nil {
		return nil, err
	}
	if err := sr.Finish(); err != nil {
		return nil, err
	}

	if uint64(len(tokens)) != header.AnchorCount || uint64(len(positions)) != header.AnchorCount {
		return nil, fmt.Errorf("%w: %d tokens and %d positions, header says %d anchors",
			persistence.ErrCorrupt, len(tokens), len(positions), header.AnchorCount)
	}
	if n := len(positions); n > 0 && positions[n-1] >= header.SequenceLen {
		return nil, fmt.Errorf("%w: anchor position %d beyond sequence length %d",
			persistence.ErrCorrupt, positions[n-1], header.SequenceLen)
	}

	sketcher, err := sketch.New(int(header.K), int(header.W), alpha.Bits())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", persistence.ErrCorrupt, err)
	}

	trans, err := eliasfano.New(positions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", persistence.ErrCorrupt, err)
	}

	skel, err := skeleton.Rebuild(skeleton.Type(header.SkeletonType), tokens, sa)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", persistence.ErrCorrupt, err)
	}

	return &Index{
		store:    store,
		sketcher: sketcher,
		tokens:   tokens,
		skel:     skel,
		trans:    trans,
		opts:     opts,
	}, nil
}

// SaveToFile serializes the index to path atomically.
func (x *Index) SaveToFile(path string) error {
	return persistence.SaveToFile(path, func(w io.Writer) error {
		_, err := x.WriteTo(w)
		return err
	})
}

// LoadFromFile deserializes an index from path.
func LoadFromFile(path string, optFns ...Option) (*Index, error) {
	var idx *Index
	err := persistence.LoadFromFile(path, func(r io.Reader) error {
		var err error
		idx, err = Read(r, optFns...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
