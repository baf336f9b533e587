package dnacodec

import (
	"fmt"
	"math"

	"github.com/seqforge/dna-codec/pkg/codecerr"
	"github.com/seqforge/dna-codec/pkg/ecc"
	"github.com/seqforge/dna-codec/pkg/header"
	"github.com/seqforge/dna-codec/pkg/nucleotide"
)

// DefaultBaseLength is a sequence length valid for both correction levels.
const DefaultBaseLength = 480

// EncodeOptions are the immutable per-call parameters of Encode.
type EncodeOptions struct {
	// Password enables encryption when non-empty.
	Password string
	// BaseLength is the exact symbol length of every produced sequence.
	// Zero selects DefaultBaseLength.
	BaseLength int
	// Level selects the error-correction redundancy.
	Level ecc.Level
}

// DecodeOptions are the immutable per-call parameters of Decode.
type DecodeOptions struct {
	// Password must match the one used on encode when the payload was
	// encrypted.
	Password string
	// Level is advisory: it orders the geometry probe, but the level stored
	// in each chunk header is authoritative and a disagreement with this
	// value is not an error.
	Level ecc.Level
}

// Metadata summarizes an encode result. It is derived information for the
// caller's bookkeeping; decode trusts only the per-chunk headers, since this
// aggregate may travel separately from the sequences.
type Metadata struct {
	OriginalSize  int       `json:"original_size"`
	SequenceCount int       `json:"sequence_count"`
	BaseLength    int       `json:"base_length"`
	Level         ecc.Level `json:"-"`
	Encrypted     bool      `json:"is_encrypted"`
}

// EncodeResult bundles the sequences with their derived metadata.
type EncodeResult struct {
	Sequences []string
	Metadata  Metadata
}

// geometry fixes every length in the pipeline for one (baseLength, level)
// pair. With k data shards, p parity shards (n = k+p) and shard size s, a
// protected block is n locator entries plus n shards, and the sequence is
// four symbols per protected byte:
//
//	baseLength = 4 * n * (ecc.LocatorSize + s)
//
// The orchestrator solves this for s and derives how many payload bytes fit
// beside the header in the k data shards.
type geometry struct {
	level     ecc.Level
	shardSize int
	blockLen  int // k * shardSize; the data region incl. header and fill
	capacity  int // payload bytes per chunk
}

func solveGeometry(baseLength int, level ecc.Level) (geometry, error) {
	if !level.Valid() {
		return geometry{}, &codecerr.ConfigurationError{
			Reason: fmt.Sprintf("unrecognized error-correction level %d", uint8(level)),
		}
	}

	n := level.TotalShards()
	unit := nucleotide.SymbolsPerByte * n
	if baseLength < 1 || baseLength%unit != 0 {
		return geometry{}, &codecerr.ConfigurationError{
			Reason: fmt.Sprintf("base length %d is not a positive multiple of %d required by level %s",
				baseLength, unit, level),
		}
	}

	shardSize := baseLength/unit - ecc.LocatorSize
	if shardSize < 1 {
		return geometry{}, &codecerr.ConfigurationError{
			Reason: fmt.Sprintf("base length %d leaves no room for shard data at level %s", baseLength, level),
		}
	}

	blockLen := level.DataShards() * shardSize
	capacity := blockLen - header.Size
	if capacity < 1 {
		return geometry{}, &codecerr.ConfigurationError{
			Reason: fmt.Sprintf("base length %d cannot fit a single payload byte after %d header bytes and %s redundancy",
				baseLength, header.Size, level),
		}
	}

	return geometry{
		level:     level,
		shardSize: shardSize,
		blockLen:  blockLen,
		capacity:  capacity,
	}, nil
}

// geometryForProtected derives the geometry from a received protected block
// length, reporting false when the length does not fit the level.
func geometryForProtected(protectedLen int, level ecc.Level) (geometry, bool) {
	s, ok := ecc.ShardSize(protectedLen, level)
	if !ok {
		return geometry{}, false
	}
	blockLen := level.DataShards() * s
	if blockLen < header.Size+1 {
		return geometry{}, false
	}
	return geometry{
		level:     level,
		shardSize: s,
		blockLen:  blockLen,
		capacity:  blockLen - header.Size,
	}, true
}

func (o EncodeOptions) withDefaults() EncodeOptions {
	if o.BaseLength == 0 {
		o.BaseLength = DefaultBaseLength
	}
	return o
}

func validatePayloadSize(size int) error {
	if size > math.MaxUint32 {
		return &codecerr.ConfigurationError{
			Reason: fmt.Sprintf("payload of %d bytes exceeds the %d-byte header limit", size, uint32(math.MaxUint32)),
		}
	}
	return nil
}
