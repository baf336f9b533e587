// Package ecc protects byte blocks with systematic Reed-Solomon redundancy.
//
// A protected block is laid out as a shard locator table followed by the
// shards themselves:
//
//	[crc32 shard 0]...[crc32 shard n-1][shard 0][shard 1]...[shard n-1]
//
// The first k shards carry the input block (zero-filled to k*s), the
// remaining p shards carry parity. On recovery the locator table pinpoints
// damaged shards, which are then rebuilt as Reed-Solomon erasures. A damaged
// locator entry simply marks its own shard as lost, so locator corruption
// consumes the same budget as shard corruption.
package ecc

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/reedsolomon"
	"github.com/seqforge/dna-codec/pkg/codecerr"
)

// LocatorSize is the per-shard overhead of the locator table in bytes.
const LocatorSize = 4

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// ProtectedLength returns the size of the protected form of a block of
// blockLen bytes at the given level.
func ProtectedLength(blockLen int, level Level) int {
	k := level.DataShards()
	n := level.TotalShards()
	s := (blockLen + k - 1) / k
	return n * (LocatorSize + s)
}

// ShardSize derives the shard size from a protected block length, reporting
// false when the length does not fit the level's geometry.
func ShardSize(protectedLen int, level Level) (int, bool) {
	n := level.TotalShards()
	if protectedLen <= 0 || protectedLen%n != 0 {
		return 0, false
	}
	s := protectedLen/n - LocatorSize
	if s < 1 {
		return 0, false
	}
	return s, true
}

// Protect appends level-dependent redundancy to block and returns the
// protected form. The input is not modified.
func Protect(block []byte, level Level) ([]byte, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("ecc: invalid level %d", uint8(level))
	}
	if len(block) == 0 {
		return nil, fmt.Errorf("ecc: empty block")
	}

	k := level.DataShards()
	p := level.ParityShards()
	n := k + p
	s := (len(block) + k - 1) / k

	padded := make([]byte, k*s)
	copy(padded, block)

	shards := make([][]byte, n)
	for i := 0; i < k; i++ {
		shards[i] = padded[i*s : (i+1)*s]
	}
	for i := k; i < n; i++ {
		shards[i] = make([]byte, s)
	}

	enc, err := reedsolomon.New(k, p)
	if err != nil {
		return nil, fmt.Errorf("ecc: new encoder: %w", err)
	}
	if err := enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("ecc: encode parity: %w", err)
	}

	out := make([]byte, 0, n*(LocatorSize+s))
	for i := 0; i < n; i++ {
		out = binary.BigEndian.AppendUint32(out, crc32.Checksum(shards[i], crcTable))
	}
	for i := 0; i < n; i++ {
		out = append(out, shards[i]...)
	}
	return out, nil
}

// Recover validates the protected block, repairs damaged shards within the
// level's correction bound, and returns the data region (k*s bytes; trailing
// zero fill from Protect is the caller's to trim) together with the number of
// shards that had to be rebuilt.
func Recover(protected []byte, level Level) ([]byte, int, error) {
	if !level.Valid() {
		return nil, 0, fmt.Errorf("ecc: invalid level %d", uint8(level))
	}

	k := level.DataShards()
	p := level.ParityShards()
	n := k + p

	s, ok := ShardSize(len(protected), level)
	if !ok {
		return nil, 0, &codecerr.ValidationError{
			Chunk:  -1,
			Reason: fmt.Sprintf("protected block of %d bytes does not fit %s geometry (%d shards)", len(protected), level, n),
		}
	}

	table := protected[:n*LocatorSize]
	body := protected[n*LocatorSize:]

	shards := make([][]byte, n)
	damaged := 0
	for i := 0; i < n; i++ {
		shard := body[i*s : (i+1)*s]
		want := binary.BigEndian.Uint32(table[i*LocatorSize : (i+1)*LocatorSize])
		if crc32.Checksum(shard, crcTable) != want {
			damaged++
			continue
		}
		shards[i] = append([]byte(nil), shard...)
	}

	if damaged == 0 {
		data := make([]byte, 0, k*s)
		for i := 0; i < k; i++ {
			data = append(data, shards[i]...)
		}
		return data, 0, nil
	}

	if damaged > p {
		return nil, 0, &codecerr.UncorrectableError{Chunk: -1, Damaged: damaged, Bound: p}
	}

	enc, err := reedsolomon.New(k, p)
	if err != nil {
		return nil, 0, fmt.Errorf("ecc: new decoder: %w", err)
	}
	if err := enc.Reconstruct(shards); err != nil {
		return nil, 0, &codecerr.UncorrectableError{Chunk: -1, Damaged: damaged, Bound: p}
	}

	data := make([]byte, 0, k*s)
	for i := 0; i < k; i++ {
		data = append(data, shards[i]...)
	}
	return data, damaged, nil
}
