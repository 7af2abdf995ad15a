// Package uindex provides an exact-substring search index for very large
// symbol sequences such as whole genomes.
//
// The index is two-level: a deterministic minimizer sketch reduces the
// reference to a sparse skeleton of anchor tokens, an exact-match structure
// (sparse suffix array or FM-index-style BWT) is built over the skeleton,
// and a succinct Elias-Fano translator maps skeleton coordinates back to
// sequence offsets for final verification. Queries are exact: every
// reported offset is a real occurrence and none are missed.
//
// # Quick Start
//
//	idx, err := uindex.Build(seq, sequence.DNA, 16, 8)
//	if err != nil {
//	    panic(err)
//	}
//
//	count, _ := idx.Count([]byte("ACGTACGTACGTACGTACGTACG"))
//	offsets, _ := idx.Locate([]byte("ACGTACGTACGTACGTACGTACG"))
//
// # Persistence
//
//	_ = idx.SaveToFile("ref.uix")
//	idx, _ = uindex.LoadFromFile("ref.uix")
//
// # Key Properties
//
//   - Exact results with sketch-level speed and space
//   - Deterministic build: identical input yields an identical index at any
//     parallelism setting
//   - Built indexes are immutable and safe for unlimited concurrent readers
//   - Succinct position translation (Elias-Fano) instead of full position
//     arrays
//   - Pluggable exact-match structure (suffix array or FM-index)
//   - Checksummed, compressed snapshots (zstd/lz4)
package uindex
