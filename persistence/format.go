// Package persistence provides the binary on-disk format for a built index.
//
// A persisted index is a fixed-size header followed by framed sections and a
// CRC32C trailer covering everything before it. Sections are individually
// compressed; the layout is not guaranteed byte-identical across versions,
// only observationally equivalent after a load.
package persistence

import "errors"

const (
	// MagicNumber identifies persisted index files (ASCII: "UIX1").
	MagicNumber = 0x55495831
	// Version is the current file format version.
	Version = 0x00010000
)

// Section identifiers. Sections appear in this order.
const (
	SectionAlphabet uint8 = iota + 1
	SectionSequence
	SectionTokens
	SectionPositions
	SectionSuffixArray
)

var (
	// ErrInvalidMagic indicates the blob does not start with the index magic.
	ErrInvalidMagic = errors.New("persistence: invalid magic number")

	// ErrInvalidVersion indicates an unsupported format version.
	ErrInvalidVersion = errors.New("persistence: unsupported version")

	// ErrChecksumMismatch indicates the blob is corrupted.
	ErrChecksumMismatch = errors.New("persistence: checksum mismatch")

	// ErrCorrupt indicates a structurally malformed blob.
	ErrCorrupt = errors.New("persistence: malformed index blob")
)

// FileHeader is the fixed-size header at the start of every index blob.
type FileHeader struct {
	Magic        uint32
	Version      uint32
	SkeletonType uint8
	Compression  uint8
	Padding      [2]byte
	K            uint32
	W            uint32
	AlphabetLen  uint32
	SequenceLen  uint64
	AnchorCount  uint64
	Reserved     [16]byte
}
