// Package chunker splits a byte stream into fixed-size chunks and merges
// validated chunks back in index order. The per-chunk headers are the sole
// ordering authority: arrival order of chunks is irrelevant.
package chunker

import (
	"fmt"

	"github.com/seqforge/dna-codec/pkg/codecerr"
)

// Chunk is one header-validated fragment of the payload, ready for
// reassembly. Total and PayloadLength come from the chunk's own header and
// must agree across the whole set.
type Chunk struct {
	Index         int
	Total         int
	PayloadLength int
	Data          []byte
}

// Split cuts payload into chunks of at most capacity bytes. All chunks except
// the last are exactly capacity long; the last carries the remainder and is
// never padded. An empty payload yields a single empty chunk so the decoder
// always has at least one header to recover the payload length from.
func Split(payload []byte, capacity int) ([][]byte, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("chunker: capacity must be at least 1 byte, got %d", capacity)
	}

	if len(payload) == 0 {
		return [][]byte{{}}, nil
	}

	chunks := make([][]byte, 0, (len(payload)+capacity-1)/capacity)
	for start := 0; start < len(payload); start += capacity {
		end := start + capacity
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, payload[start:end])
	}
	return chunks, nil
}

// Reassemble validates the chunk set and concatenates the data in index
// order, truncated to the declared payload length.
//
// The set is rejected when chunks disagree on total count or payload length,
// when an index appears twice (ambiguous which copy to trust), or when an
// index is absent. All set-level failures are reported together so the
// caller learns every gap at once.
func Reassemble(chunks []Chunk) ([]byte, error) {
	if len(chunks) == 0 {
		return nil, &codecerr.ValidationError{Chunk: -1, Reason: "no chunks to reassemble"}
	}

	total := chunks[0].Total
	payloadLen := chunks[0].PayloadLength

	var failures []error
	byIndex := make(map[int]Chunk, len(chunks))
	for _, c := range chunks {
		if c.Total != total || c.PayloadLength != payloadLen {
			failures = append(failures, &codecerr.ValidationError{
				Chunk: c.Index,
				Reason: fmt.Sprintf("header disagrees with chunk set: total %d/%d, payload length %d/%d",
					c.Total, total, c.PayloadLength, payloadLen),
			})
			continue
		}
		if c.Index < 0 || c.Index >= total {
			failures = append(failures, &codecerr.ValidationError{
				Chunk:  c.Index,
				Reason: fmt.Sprintf("chunk index %d outside 0..%d", c.Index, total-1),
			})
			continue
		}
		if _, dup := byIndex[c.Index]; dup {
			failures = append(failures, &codecerr.ValidationError{
				Chunk:  c.Index,
				Reason: fmt.Sprintf("duplicate chunk index %d", c.Index),
			})
			continue
		}
		byIndex[c.Index] = c
	}

	for i := 0; i < total; i++ {
		if _, ok := byIndex[i]; !ok {
			failures = append(failures, &codecerr.MissingChunkError{Index: i})
		}
	}

	switch len(failures) {
	case 0:
	case 1:
		return nil, failures[0]
	default:
		return nil, &codecerr.DecodeReport{Failures: failures}
	}

	payload := make([]byte, 0, payloadLen)
	for i := 0; i < total; i++ {
		payload = append(payload, byIndex[i].Data...)
	}
	if len(payload) < payloadLen {
		return nil, &codecerr.ValidationError{
			Chunk:  -1,
			Reason: fmt.Sprintf("reassembled %d bytes, headers declare %d", len(payload), payloadLen),
		}
	}

	// Trim any trailing fill from the last chunk's block boundary.
	return payload[:payloadLen], nil
}
