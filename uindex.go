package uindex

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/uindex/eliasfano"
	"github.com/hupe1980/uindex/sequence"
	"github.com/hupe1980/uindex/sketch"
	"github.com/hupe1980/uindex/skeleton"
)

// Index is a built, immutable exact-substring search index.
//
// The reference sequence is reduced to a sparse minimizer skeleton; an
// exact-match structure over the skeleton answers token-level searches, an
// Elias-Fano translator maps skeleton ordinals back to sequence offsets, and
// every candidate is verified against the packed sequence before it is
// reported. Results are exact: no false positives, no false negatives.
//
// A successful Build is the only way to obtain a usable Index. After build
// the Index is read-only and safe for any number of concurrent queries.
type Index struct {
	store    *sequence.Store
	sketcher *sketch.Sketcher
	tokens   []uint64
	skel     skeleton.Index
	trans    *eliasfano.Sequence
	opts     options
	stats    queryStats
}

// Build constructs an index over data using the given alphabet and
// minimizer parameters k (anchor length) and w (window width).
//
// Build is one-shot and atomic: on any error no partial index is exposed
// and the caller must re-attempt from scratch.
func Build(data []byte, alpha *sequence.Alphabet, k, w int, optFns ...Option) (*Index, error) {
	opts := applyOptions(optFns)
	start := time.Now()

	idx, err := build(data, alpha, k, w, opts)
	opts.metrics.RecordBuild(time.Since(start), err)
	anchors := 0
	if idx != nil {
		anchors = idx.trans.Len()
	}
	opts.logger.LogBuild(context.Background(), len(data), anchors, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return idx, nil
}

func build(data []byte, alpha *sequence.Alphabet, k, w int, opts options) (*Index, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if alpha == nil {
		alpha = sequence.DNA
	}
	if len(data) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: sequence of %d symbols exceeds 32-bit offset space", ErrConstruction, len(data))
	}

	sketcher, err := sketch.New(k, w, alpha.Bits())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}

	store, err := sequence.Pack(data, alpha)
	if err != nil {
		return nil, translateError(err)
	}

	anchors := sketcher.Sketch(store, opts.parallelism)
	tokens := sketch.Tokens(anchors)

	trans, err := eliasfano.New(sketch.Positions(anchors))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}

	skel, err := skeleton.Build(opts.skeleton, tokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
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

// Len returns the reference sequence length in symbols.
func (x *Index) Len() int { return x.store.Len() }

// Alphabet returns the alphabet the index was built with.
func (x *Index) Alphabet() *sequence.Alphabet { return x.store.Alphabet() }

// K returns the anchor length.
func (x *Index) K() int { return x.sketcher.K() }

// W returns the window width.
func (x *Index) W() int { return x.sketcher.W() }

// Anchors returns the number of minimizer anchors in the skeleton.
func (x *Index) Anchors() int { return x.trans.Len() }

// SkeletonType returns the exact-match structure the index uses.
func (x *Index) SkeletonType() skeleton.Type { return x.skel.Type() }

// ready reports whether the index came out of a successful build.
func (x *Index) ready() bool {
	return x != nil && x.store != nil
}
