package uindex_test

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/uindex"
	"github.com/hupe1980/uindex/persistence"
	"github.com/hupe1980/uindex/sequence"
	"github.com/hupe1980/uindex/skeleton"
)

// Example_build demonstrates building an index and locating a pattern.
func Example_build() {
	seq := []byte("ACGTACGTACGT")

	idx, err := uindex.Build(seq, sequence.DNA, 3, 2)
	if err != nil {
		log.Fatal(err)
	}

	positions, err := idx.Locate([]byte("GTAC"))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(positions)
	// Output: [2 6]
}

// Example_count demonstrates counting occurrences without materializing them.
func Example_count() {
	idx, err := uindex.Build([]byte("ACGTACGTACGT"), sequence.DNA, 3, 2)
	if err != nil {
		log.Fatal(err)
	}

	n, err := idx.Count([]byte("ACGT"))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d occurrences\n", n)
	// Output: Found 3 occurrences
}

// Example_fmIndex demonstrates selecting the FM-index skeleton.
func Example_fmIndex() {
	idx, err := uindex.Build([]byte("ACGTACGTACGT"), sequence.DNA, 3, 2,
		uindex.WithSkeleton(skeleton.TypeFMIndex))
	if err != nil {
		log.Fatal(err)
	}

	positions, err := idx.Locate([]byte("GTAC"))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(positions)
	// Output: [2 6]
}

// Example_customAlphabet demonstrates indexing over a non-DNA alphabet.
func Example_customAlphabet() {
	protein := sequence.MustAlphabet("ACDEFGHIKLMNPQRSTVWY")

	idx, err := uindex.Build([]byte("MKTAYIAKQRMKTAYIAKQR"), protein, 3, 2)
	if err != nil {
		log.Fatal(err)
	}

	positions, err := idx.Locate([]byte("TAYI"))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(positions)
	// Output: [2 12]
}

// Example_serialize demonstrates the serialize/deserialize round trip.
func Example_serialize() {
	idx, err := uindex.Build([]byte("ACGTACGTACGT"), sequence.DNA, 3, 2,
		uindex.WithCompression(persistence.CompressionLZ4))
	if err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := idx.WriteTo(&buf); err != nil {
		log.Fatal(err)
	}

	restored, err := uindex.Read(&buf)
	if err != nil {
		log.Fatal(err)
	}

	positions, err := restored.Locate([]byte("GTAC"))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(positions)
	// Output: [2 6]
}

// Example_saveToFile demonstrates persisting an index to disk.
func Example_saveToFile() {
	path := "./example_index.uix"
	defer os.Remove(path) // Cleanup after example

	idx, err := uindex.Build([]byte("ACGTACGTACGT"), sequence.DNA, 3, 2)
	if err != nil {
		log.Fatal(err)
	}
	if err := idx.SaveToFile(path); err != nil {
		log.Fatal(err)
	}

	restored, err := uindex.LoadFromFile(path)
	if err != nil {
		log.Fatal(err)
	}

	n, err := restored.Count([]byte("GTAC"))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d occurrences\n", n)
	// Output: Found 2 occurrences
}

// Example_errorHandling demonstrates the query error taxonomy.
func Example_errorHandling() {
	idx, err := uindex.Build([]byte("ACGTACGT"), sequence.DNA, 3, 2)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := idx.Locate([]byte("ACNT")); errors.Is(err, uindex.ErrAlphabet) {
		var is *sequence.ErrInvalidSymbol
		errors.As(err, &is)
		fmt.Printf("invalid symbol %q at offset %d\n", is.Symbol, is.Offset)
	}
	// Output: invalid symbol 'N' at offset 2
}

// Example_stats demonstrates inspecting the query funnel.
func Example_stats() {
	idx, err := uindex.Build([]byte("ACGTACGTACGT"), sequence.DNA, 3, 2)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := idx.Locate([]byte("GTAC")); err != nil {
		log.Fatal(err)
	}

	stats := idx.Stats()
	fmt.Printf("queries=%d matches=%d\n", stats.Queries, stats.Matches)
	// Output: queries=1 matches=2
}
