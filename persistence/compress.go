package persistence

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the per-section compression codec.
type Compression uint8

const (
	// CompressionNone stores sections raw.
	CompressionNone Compression = iota
	// CompressionZstd is the default; best ratio at good speed.
	CompressionZstd
	// CompressionLZ4 trades ratio for faster decode.
	CompressionLZ4
)

// String returns a string representation of the Compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (c Compression) valid() bool {
	return c == CompressionNone || c == CompressionZstd || c == CompressionLZ4
}

// compress encodes payload with the codec.
func compress(c Compression, payload []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return payload, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(payload, make([]byte, 0, len(payload)/2)), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: compression codec %d", ErrCorrupt, c)
	}
}

// decompress decodes payload, verifying the result has the expected size.
func decompress(c Compression, payload []byte, rawLen int) ([]byte, error) {
	var out []byte
	switch c {
	case CompressionNone:
		out = payload
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err = dec.DecodeAll(payload, make([]byte, 0, rawLen))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	case CompressionLZ4:
		var err error
		out, err = io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	default:
		return nil, fmt.Errorf("%w: compression codec %d", ErrCorrupt, c)
	}
	if len(out) != rawLen {
		return nil, fmt.Errorf("%w: section decodes to %d bytes, want %d", ErrCorrupt, len(out), rawLen)
	}
	return out, nil
}
