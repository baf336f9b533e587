// Package codecerr defines the error kinds surfaced by the codec pipeline.
// Callers match on the concrete types with errors.As to decide whether a
// retry (re-reading sequences, re-entering a password) is worthwhile.
package codecerr

import (
	"fmt"
	"strings"
)

// ConfigurationError reports encode parameters that cannot produce any
// sequence, e.g. a base length with no room for a single payload byte.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// ValidationError reports structurally broken input: characters outside the
// alphabet, an inconsistent header, or a conflicting chunk set. Chunk is the
// chunk index (or sequence position when no header was recovered yet) and is
// -1 for call-level failures.
type ValidationError struct {
	Chunk  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Chunk < 0 {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: chunk %d: %s", e.Chunk, e.Reason)
}

// UncorrectableError reports corruption beyond what the chunk's redundancy
// level guarantees to repair. Damaged counts the shards found or presumed
// corrupt, Bound is the maximum the level can reconstruct.
type UncorrectableError struct {
	Chunk   int
	Damaged int
	Bound   int
}

func (e *UncorrectableError) Error() string {
	if e.Chunk < 0 {
		return fmt.Sprintf("uncorrectable: %d damaged shards exceed correction bound %d", e.Damaged, e.Bound)
	}
	return fmt.Sprintf("uncorrectable: chunk %d: %d damaged shards exceed correction bound %d", e.Chunk, e.Damaged, e.Bound)
}

// ChecksumMismatchError reports a chunk whose data checksum still fails after
// error correction succeeded, i.e. corruption escaped the code's guarantee.
type ChecksumMismatchError struct {
	Chunk int
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: chunk %d data digest does not match its header", e.Chunk)
}

// MissingChunkError reports a gap in the chunk index set.
type MissingChunkError struct {
	Index int
}

func (e *MissingChunkError) Error() string {
	return fmt.Sprintf("missing chunk: index %d absent from sequence set", e.Index)
}

// AuthenticationError reports a failed decryption: wrong password or tampered
// ciphertext. The two are indistinguishable by design.
type AuthenticationError struct {
	Cause error
}

func (e *AuthenticationError) Error() string {
	if e.Cause == nil {
		return "authentication failed: wrong password or tampered data"
	}
	return "authentication failed: " + e.Cause.Error()
}

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// DecodeReport aggregates every per-chunk failure of a single decode call so
// the caller sees all broken chunks at once instead of just the first.
type DecodeReport struct {
	Failures []error
}

func (r *DecodeReport) Error() string {
	if len(r.Failures) == 1 {
		return r.Failures[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d chunks failed to decode:", len(r.Failures))
	for _, err := range r.Failures {
		b.WriteString("\n\t")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes the collected failures to errors.Is and errors.As.
func (r *DecodeReport) Unwrap() []error { return r.Failures }
