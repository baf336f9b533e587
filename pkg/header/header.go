// Package header serializes the fixed-layout metadata block carried at the
// front of every chunk. The layout is big-endian and exactly Size bytes:
//
//	offset 0  version        uint8
//	offset 1  chunk index    uint16
//	offset 3  total chunks   uint16
//	offset 5  payload length uint32
//	offset 9  level          uint8
//	offset 10 flags          uint8
//	offset 11 data checksum  uint64 (xxhash64 of the chunk's data bytes)
//
// The checksum covers the chunk data only, never the header itself; it is
// the final integrity confirmation after error correction has run.
package header

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/seqforge/dna-codec/pkg/codecerr"
	"github.com/seqforge/dna-codec/pkg/ecc"
)

// Size is the encoded header length in bytes.
const Size = 19

// Version is the only format version this codec reads and writes.
const Version = 1

// FlagEncrypted marks a chunk belonging to an encrypted payload.
const FlagEncrypted = 0x01

// Header is the per-chunk metadata block. Total and PayloadLength are
// replicated on every chunk and cross-checked during reassembly.
type Header struct {
	Version       uint8
	Index         uint16
	Total         uint16
	PayloadLength uint32
	Level         ecc.Level
	Flags         uint8
	Checksum      uint64
}

// ChecksumOf computes the data checksum stored in the header.
func ChecksumOf(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Encrypted reports whether the chunk belongs to an encrypted payload.
func (h Header) Encrypted() bool {
	return h.Flags&FlagEncrypted != 0
}

// Encode produces the fixed-width wire form.
func (h Header) Encode() []byte {
	out := make([]byte, Size)
	out[0] = h.Version
	binary.BigEndian.PutUint16(out[1:3], h.Index)
	binary.BigEndian.PutUint16(out[3:5], h.Total)
	binary.BigEndian.PutUint32(out[5:9], h.PayloadLength)
	out[9] = uint8(h.Level)
	out[10] = h.Flags
	binary.BigEndian.PutUint64(out[11:19], h.Checksum)
	return out
}

// Decode parses and validates a header block. Structural inconsistencies
// (unknown version or level, index out of range, zero total) fail validation.
func Decode(raw []byte) (Header, error) {
	if len(raw) < Size {
		return Header{}, &codecerr.ValidationError{
			Chunk:  -1,
			Reason: fmt.Sprintf("header needs %d bytes, got %d", Size, len(raw)),
		}
	}

	h := Header{
		Version:       raw[0],
		Index:         binary.BigEndian.Uint16(raw[1:3]),
		Total:         binary.BigEndian.Uint16(raw[3:5]),
		PayloadLength: binary.BigEndian.Uint32(raw[5:9]),
		Level:         ecc.Level(raw[9]),
		Flags:         raw[10],
		Checksum:      binary.BigEndian.Uint64(raw[11:19]),
	}

	if h.Version != Version {
		return Header{}, &codecerr.ValidationError{
			Chunk:  -1,
			Reason: fmt.Sprintf("unrecognized header version %d", h.Version),
		}
	}
	if h.Total == 0 {
		return Header{}, &codecerr.ValidationError{
			Chunk:  -1,
			Reason: "header total chunk count is zero",
		}
	}
	if h.Index >= h.Total {
		return Header{}, &codecerr.ValidationError{
			Chunk:  int(h.Index),
			Reason: fmt.Sprintf("chunk index %d not below total count %d", h.Index, h.Total),
		}
	}
	if !h.Level.Valid() {
		return Header{}, &codecerr.ValidationError{
			Chunk:  int(h.Index),
			Reason: fmt.Sprintf("unrecognized error-correction level %d", uint8(h.Level)),
		}
	}

	return h, nil
}
