package dnacodec

import (
	"context"
	"fmt"

	"github.com/seqforge/dna-codec/pkg/chunker"
	"github.com/seqforge/dna-codec/pkg/codecerr"
	"github.com/seqforge/dna-codec/pkg/ecc"
	"github.com/seqforge/dna-codec/pkg/header"
	"github.com/seqforge/dna-codec/pkg/nucleotide"
	"github.com/seqforge/dna-codec/pkg/passcrypt"
)

// Decode reconstructs the original payload from sequences. Arrival order is
// irrelevant; each chunk's header is the sole ordering authority. Per-chunk
// failures are collected into one report covering every broken sequence, so
// the caller can judge whether re-reading specific chunks is worthwhile.
// Call-level failures (no usable chunk set, failed decryption) abort
// immediately.
func (c *Codec) Decode(ctx context.Context, sequences []string, opts DecodeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(sequences) == 0 {
		return nil, &codecerr.ValidationError{Chunk: -1, Reason: "no sequences supplied"}
	}

	chunks := make([]chunker.Chunk, len(sequences))
	encrypted := make([]bool, len(sequences))
	corrected := make([]int, len(sequences))
	chunkErrs := make([]error, len(sequences))

	batch := c.pool.NewBatch()
	for i, seq := range sequences {
		i, seq := i, seq
		batch.Submit(func() {
			if ctx.Err() != nil {
				chunkErrs[i] = ctx.Err()
				return
			}
			chunks[i], encrypted[i], corrected[i], chunkErrs[i] = decodeChunk(seq, i, opts.Level)
		})
	}
	batch.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failures []error
	for _, err := range chunkErrs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		if len(failures) == 1 {
			return nil, failures[0]
		}
		return nil, &codecerr.DecodeReport{Failures: failures}
	}

	totalCorrected := 0
	for _, n := range corrected {
		totalCorrected += n
	}
	if totalCorrected > 0 {
		c.log.Info("repaired corrupted shards during decode", "shards", totalCorrected, "sequences", len(sequences))
	}

	payload, err := chunker.Reassemble(chunks)
	if err != nil {
		return nil, err
	}

	isEncrypted := false
	for _, e := range encrypted {
		if e {
			isEncrypted = true
			break
		}
	}
	if isEncrypted {
		if opts.Password == "" {
			return nil, &codecerr.AuthenticationError{
				Cause: fmt.Errorf("payload is encrypted and no password was supplied"),
			}
		}
		plaintext, err := passcrypt.Open(payload, opts.Password)
		if err != nil {
			return nil, err
		}
		payload = plaintext
	}

	c.log.Debug("decoded payload",
		"payload_bytes", len(payload),
		"sequences", len(sequences),
		"repaired_shards", totalCorrected,
		"encrypted", isEncrypted,
	)
	return payload, nil
}

// decodeChunk maps one sequence back to bytes, repairs it, validates its
// header and checksum, and returns the chunk ready for reassembly. position
// is the sequence's place in the input, used to localize errors that occur
// before a header is recovered.
func decodeChunk(seq string, position int, advisory ecc.Level) (chunker.Chunk, bool, int, error) {
	raw, err := nucleotide.SequenceToBytes(seq)
	if err != nil {
		return chunker.Chunk{}, false, 0, stampChunk(err, position)
	}

	h, data, corrected, err := recoverChunk(raw, advisory)
	if err != nil {
		return chunker.Chunk{}, false, 0, stampChunk(err, position)
	}

	if header.ChecksumOf(data) != h.Checksum {
		return chunker.Chunk{}, false, 0, &codecerr.ChecksumMismatchError{Chunk: int(h.Index)}
	}

	return chunker.Chunk{
		Index:         int(h.Index),
		Total:         int(h.Total),
		PayloadLength: int(h.PayloadLength),
		Data:          data,
	}, h.Encrypted(), corrected, nil
}

// recoverChunk finds the geometry that fits the block, runs error correction,
// and cross-checks the recovered header against the geometry used. The
// advisory level is probed first; the header's own level field is the
// authority and must confirm the geometry that succeeded.
func recoverChunk(raw []byte, advisory ecc.Level) (header.Header, []byte, int, error) {
	levels := []ecc.Level{ecc.Basic, ecc.Advanced}
	if advisory == ecc.Advanced {
		levels = []ecc.Level{ecc.Advanced, ecc.Basic}
	}

	var lastErr error
	for _, level := range levels {
		geo, ok := geometryForProtected(len(raw), level)
		if !ok {
			continue
		}

		block, corrected, err := ecc.Recover(raw, level)
		if err != nil {
			lastErr = err
			continue
		}

		h, err := header.Decode(block[:header.Size])
		if err != nil {
			lastErr = err
			continue
		}
		if h.Level != level {
			lastErr = &codecerr.ValidationError{
				Chunk:  int(h.Index),
				Reason: fmt.Sprintf("header declares level %s but block geometry is %s", h.Level, level),
			}
			continue
		}

		dataLen, err := chunkDataLength(h, geo)
		if err != nil {
			lastErr = err
			continue
		}

		return h, block[header.Size : header.Size+dataLen], corrected, nil
	}

	if lastErr == nil {
		lastErr = &codecerr.ValidationError{
			Chunk:  -1,
			Reason: fmt.Sprintf("sequence of %d symbols matches no error-correction geometry", len(raw)*nucleotide.SymbolsPerByte),
		}
	}
	return header.Header{}, nil, 0, lastErr
}

// chunkDataLength derives how many data bytes this chunk carries from the
// replicated payload length, and rejects headers whose counts cannot come
// from a payload of that size.
func chunkDataLength(h header.Header, geo geometry) (int, error) {
	total := int(h.Total)
	payloadLen := int(h.PayloadLength)

	expectedTotal := (payloadLen + geo.capacity - 1) / geo.capacity
	if expectedTotal == 0 {
		expectedTotal = 1
	}
	if total != expectedTotal {
		return 0, &codecerr.ValidationError{
			Chunk: int(h.Index),
			Reason: fmt.Sprintf("total count %d inconsistent with payload length %d at %d bytes per chunk",
				total, payloadLen, geo.capacity),
		}
	}

	if int(h.Index) < total-1 {
		return geo.capacity, nil
	}
	last := payloadLen - geo.capacity*(total-1)
	if last < 0 || last > geo.capacity {
		return 0, &codecerr.ValidationError{
			Chunk:  int(h.Index),
			Reason: fmt.Sprintf("payload length %d does not fill %d chunks", payloadLen, total),
		}
	}
	return last, nil
}

// stampChunk fills in the chunk position on typed errors that were raised
// before the chunk's own header index was known.
func stampChunk(err error, position int) error {
	switch e := err.(type) {
	case *codecerr.ValidationError:
		if e.Chunk < 0 {
			e.Chunk = position
		}
	case *codecerr.UncorrectableError:
		if e.Chunk < 0 {
			e.Chunk = position
		}
	}
	return err
}
