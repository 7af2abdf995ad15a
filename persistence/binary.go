package persistence

import (
	"encoding/binary"
	"fmt"
	"io"
)

var byteOrder = binary.LittleEndian

// Guard against absurd section sizes in corrupted blobs before allocating.
const maxSectionBytes = 1 << 40

// SectionWriter writes an index blob: header, framed compressed sections,
// CRC32C trailer.
type SectionWriter struct {
	cw    *ChecksumWriter
	codec Compression
}

// NewSectionWriter creates a writer using the given section codec.
func NewSectionWriter(w io.Writer, codec Compression) (*SectionWriter, error) {
	if !codec.valid() {
		return nil, fmt.Errorf("%w: compression codec %d", ErrCorrupt, codec)
	}
	return &SectionWriter{cw: NewChecksumWriter(w), codec: codec}, nil
}

// WriteHeader writes the file header, forcing magic, version and codec.
func (sw *SectionWriter) WriteHeader(header *FileHeader) error {
	header.Magic = MagicNumber
	header.Version = Version
	header.Compression = uint8(sw.codec)
	return binary.Write(sw.cw, byteOrder, header)
}

// WriteSection writes one framed section.
func (sw *SectionWriter) WriteSection(id uint8, payload []byte) error {
	encoded, err := compress(sw.codec, payload)
	if err != nil {
		return err
	}
	var frame [17]byte
	frame[0] = id
	byteOrder.PutUint64(frame[1:9], uint64(len(payload)))
	byteOrder.PutUint64(frame[9:17], uint64(len(encoded)))
	if _, err := sw.cw.Write(frame[:]); err != nil {
		return err
	}
	_, err = sw.cw.Write(encoded)
	return err
}

// WriteUint32Section writes a uint32 slice as a framed section.
func (sw *SectionWriter) WriteUint32Section(id uint8, slice []uint32) error {
	payload := make([]byte, len(slice)*4)
	for i, v := range slice {
		byteOrder.PutUint32(payload[i*4:], v)
	}
	return sw.WriteSection(id, payload)
}

// WriteUint64Section writes a uint64 slice as a framed section.
func (sw *SectionWriter) WriteUint64Section(id uint8, slice []uint64) error {
	payload := make([]byte, len(slice)*8)
	for i, v := range slice {
		byteOrder.PutUint64(payload[i*8:], v)
	}
	return sw.WriteSection(id, payload)
}

// Finish writes the checksum trailer. No sections may follow.
func (sw *SectionWriter) Finish() error {
	var trailer [4]byte
	byteOrder.PutUint32(trailer[:], sw.cw.Sum())
	// Written to the underlying writer; the trailer is not part of its own sum.
	_, err := sw.cw.w.Write(trailer[:])
	return err
}

// SectionReader reads an index blob written by SectionWriter.
type SectionReader struct {
	cr    *ChecksumReader
	codec Compression
}

// NewSectionReader creates a reader over r.
func NewSectionReader(r io.Reader) *SectionReader {
	return &SectionReader{cr: NewChecksumReader(r)}
}

// ReadHeader reads and validates the file header.
func (sr *SectionReader) ReadHeader() (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(sr.cr, byteOrder, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	sr.codec = Compression(header.Compression)
	if !sr.codec.valid() {
		return nil, fmt.Errorf("%w: compression codec %d", ErrCorrupt, header.Compression)
	}
	return &header, nil
}

// ReadSection reads one framed section and checks its identifier.
func (sr *SectionReader) ReadSection(wantID uint8) ([]byte, error) {
	var frame [17]byte
	if _, err := io.ReadFull(sr.cr, frame[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if frame[0] != wantID {
		return nil, fmt.Errorf("%w: section %d, want %d", ErrCorrupt, frame[0], wantID)
	}
	rawLen := byteOrder.Uint64(frame[1:9])
	encLen := byteOrder.Uint64(frame[9:17])
	if rawLen > maxSectionBytes || encLen > maxSectionBytes {
		return nil, fmt.Errorf("%w: section %d claims %d/%d bytes", ErrCorrupt, wantID, rawLen, encLen)
	}
	encoded := make([]byte, encLen)
	if _, err := io.ReadFull(sr.cr, encoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return decompress(sr.codec, encoded, int(rawLen))
}

// ReadUint32Section reads a framed uint32 slice section.
func (sr *SectionReader) ReadUint32Section(wantID uint8) ([]uint32, error) {
	payload, err := sr.ReadSection(wantID)
	if err != nil {
		return nil, err
	}
	if len(payload)%4 != 0 {
		return nil, fmt.Errorf("%w: section %d payload not uint32-aligned", ErrCorrupt, wantID)
	}
	slice := make([]uint32, len(payload)/4)
	for i := range slice {
		slice[i] = byteOrder.Uint32(payload[i*4:])
	}
	return slice, nil
}

// ReadUint64Section reads a framed uint64 slice section.
func (sr *SectionReader) ReadUint64Section(wantID uint8) ([]uint64, error) {
	payload, err := sr.ReadSection(wantID)
	if err != nil {
		return nil, err
	}
	if len(payload)%8 != 0 {
		return nil, fmt.Errorf("%w: section %d payload not uint64-aligned", ErrCorrupt, wantID)
	}
	slice := make([]uint64, len(payload)/8)
	for i := range slice {
		slice[i] = byteOrder.Uint64(payload[i*8:])
	}
	return slice, nil
}

// Finish reads the checksum trailer and verifies it against everything read.
func (sr *SectionReader) Finish() error {
	want := sr.cr.Sum()
	var trailer [4]byte
	if _, err := io.ReadFull(sr.cr.r, trailer[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if got := byteOrder.Uint32(trailer[:]); got != want {
		return fmt.Errorf("%w: got 0x%08x, want 0x%08x", ErrChecksumMismatch, got, want)
	}
	return nil
}
