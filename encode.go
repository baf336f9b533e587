package dnacodec

import (
	"context"
	"fmt"
	"math"

	"github.com/seqforge/dna-codec/pkg/chunker"
	"github.com/seqforge/dna-codec/pkg/codecerr"
	"github.com/seqforge/dna-codec/pkg/ecc"
	"github.com/seqforge/dna-codec/pkg/header"
	"github.com/seqforge/dna-codec/pkg/nucleotide"
	"github.com/seqforge/dna-codec/pkg/passcrypt"
)

// Encode converts payload into nucleotide sequences of exactly
// opts.BaseLength symbols each. When opts.Password is non-empty the payload
// is sealed into an authenticated envelope first, and the envelope is what
// gets chunked. Configuration problems fail before any chunk is produced.
func (c *Codec) Encode(ctx context.Context, payload []byte, opts EncodeOptions) (EncodeResult, error) {
	if err := ctx.Err(); err != nil {
		return EncodeResult{}, err
	}

	opts = opts.withDefaults()
	geo, err := solveGeometry(opts.BaseLength, opts.Level)
	if err != nil {
		return EncodeResult{}, err
	}

	data := payload
	var flags uint8
	if opts.Password != "" {
		sealed, err := passcrypt.Seal(payload, opts.Password)
		if err != nil {
			return EncodeResult{}, fmt.Errorf("encrypt payload: %w", err)
		}
		data = sealed
		flags |= header.FlagEncrypted
	}

	if err := validatePayloadSize(len(data)); err != nil {
		return EncodeResult{}, err
	}

	chunks, err := chunker.Split(data, geo.capacity)
	if err != nil {
		return EncodeResult{}, err
	}
	total := len(chunks)
	if total > math.MaxUint16 {
		return EncodeResult{}, &codecerr.ConfigurationError{
			Reason: fmt.Sprintf("payload needs %d sequences at base length %d; the chunk index field caps out at %d",
				total, opts.BaseLength, math.MaxUint16),
		}
	}

	sequences := make([]string, total)
	chunkErrs := make([]error, total)
	batch := c.pool.NewBatch()
	for i, chunkData := range chunks {
		i, chunkData := i, chunkData
		batch.Submit(func() {
			if ctx.Err() != nil {
				chunkErrs[i] = ctx.Err()
				return
			}
			sequences[i], chunkErrs[i] = encodeChunk(chunkData, i, total, len(data), flags, geo)
		})
	}
	batch.Wait()

	for _, err := range chunkErrs {
		if err != nil {
			return EncodeResult{}, err
		}
	}

	c.log.Debug("encoded payload",
		"payload_bytes", len(payload),
		"sequences", total,
		"base_length", opts.BaseLength,
		"level", geo.level.String(),
		"encrypted", flags&header.FlagEncrypted != 0,
	)

	return EncodeResult{
		Sequences: sequences,
		Metadata: Metadata{
			OriginalSize:  len(payload),
			SequenceCount: total,
			BaseLength:    opts.BaseLength,
			Level:         geo.level,
			Encrypted:     flags&header.FlagEncrypted != 0,
		},
	}, nil
}

// encodeChunk builds one protected, symbol-mapped sequence. The block is the
// header followed by the chunk data, zero-filled to the fixed block length so
// every sequence comes out at exactly the base length; the fill is trimmed on
// decode via the payload length carried in every header.
func encodeChunk(data []byte, index, total, payloadLen int, flags uint8, geo geometry) (string, error) {
	h := header.Header{
		Version:       header.Version,
		Index:         uint16(index),
		Total:         uint16(total),
		PayloadLength: uint32(payloadLen),
		Level:         geo.level,
		Flags:         flags,
		Checksum:      header.ChecksumOf(data),
	}

	block := make([]byte, geo.blockLen)
	copy(block, h.Encode())
	copy(block[header.Size:], data)

	protected, err := ecc.Protect(block, geo.level)
	if err != nil {
		return "", fmt.Errorf("protect chunk %d: %w", index, err)
	}

	return nucleotide.BytesToSequence(protected), nil
}
