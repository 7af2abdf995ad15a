package uindex

import (
	"errors"
	"fmt"

	"github.com/hupe1980/uindex/sequence"
)

var (
	// ErrEmptyInput is returned when building from a zero-length sequence.
	ErrEmptyInput = errors.New("empty input sequence")

	// ErrNotBuilt is returned when querying an index that was never built.
	ErrNotBuilt = errors.New("index not built")

	// ErrInvalidQuery is returned for an empty pattern.
	ErrInvalidQuery = errors.New("empty pattern")

	// ErrAlphabet is returned when a sequence or pattern contains a symbol
	// outside the declared alphabet.
	//
	// The offending symbol and offset can be accessed by unwrapping to
	// *sequence.ErrInvalidSymbol via errors.As.
	ErrAlphabet = errors.New("symbol outside alphabet")

	// ErrConstruction is returned when the underlying exact-match structure
	// could not be built.
	ErrConstruction = errors.New("index construction failed")
)

// translateError normalizes errors from the lower layers into the public
// taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var is *sequence.ErrInvalidSymbol
	if errors.As(err, &is) {
		return fmt.Errorf("%w: %w", ErrAlphabet, err)
	}

	return err
}
