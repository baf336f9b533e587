package dnacodec

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seqforge/dna-codec/pkg/codecerr"
	"github.com/seqforge/dna-codec/pkg/ecc"
	"github.com/seqforge/dna-codec/pkg/header"
	"github.com/seqforge/dna-codec/pkg/nucleotide"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c := New(Config{Workers: 4})
	t.Cleanup(c.Close)
	return c
}

func randomPayload(t *testing.T, size int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(int64(size) + 7))
	payload := make([]byte, size)
	_, err := rng.Read(payload)
	require.NoError(t, err)
	return payload
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	// Capacity at base length 480 is 45 bytes for Basic and 29 for Advanced,
	// so the sizes below cross chunk boundaries for both levels.
	sizes := []int{0, 1, 28, 29, 30, 44, 45, 46, 90, 1000, 4096}
	levels := []ecc.Level{ecc.Basic, ecc.Advanced}

	for _, level := range levels {
		for _, size := range sizes {
			payload := randomPayload(t, size)

			result, err := c.Encode(ctx, payload, EncodeOptions{Level: level})
			require.NoError(t, err, "level %s size %d", level, size)
			require.Equal(t, size, result.Metadata.OriginalSize)
			require.Len(t, result.Sequences, result.Metadata.SequenceCount)
			require.False(t, result.Metadata.Encrypted)
			for _, seq := range result.Sequences {
				require.Len(t, seq, DefaultBaseLength)
			}

			decoded, err := c.Decode(ctx, result.Sequences, DecodeOptions{Level: level})
			require.NoError(t, err, "level %s size %d", level, size)
			if size == 0 {
				require.Empty(t, decoded)
			} else {
				require.Equal(t, payload, decoded)
			}
		}
	}
}

func TestRoundTripCustomBaseLength(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()
	payload := randomPayload(t, 300)

	// 400 symbols is a multiple of 40, valid for Basic.
	result, err := c.Encode(ctx, payload, EncodeOptions{BaseLength: 400, Level: ecc.Basic})
	require.NoError(t, err)
	for _, seq := range result.Sequences {
		require.Len(t, seq, 400)
	}

	decoded, err := c.Decode(ctx, result.Sequences, DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestRoundTripShuffledSequences(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()
	payload := randomPayload(t, 500)

	result, err := c.Encode(ctx, payload, EncodeOptions{Level: ecc.Basic})
	require.NoError(t, err)
	require.Greater(t, len(result.Sequences), 3)

	shuffled := append([]string(nil), result.Sequences...)
	rand.New(rand.NewSource(11)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	decoded, err := c.Decode(ctx, shuffled, DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestAdvisoryLevelMismatchStillDecodes(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()
	payload := randomPayload(t, 128)

	result, err := c.Encode(ctx, payload, EncodeOptions{Level: ecc.Advanced})
	require.NoError(t, err)

	// Claiming Basic only reorders the probe; headers carry the truth.
	decoded, err := c.Decode(ctx, result.Sequences, DecodeOptions{Level: ecc.Basic})
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestEncryptedRoundTrip(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()
	payload := []byte("sealed genomic archive")

	result, err := c.Encode(ctx, payload, EncodeOptions{Password: "hunter2", Level: ecc.Advanced})
	require.NoError(t, err)
	require.True(t, result.Metadata.Encrypted)
	require.Equal(t, len(payload), result.Metadata.OriginalSize)

	decoded, err := c.Decode(ctx, result.Sequences, DecodeOptions{Password: "hunter2"})
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestEncryptedDecodeWrongPassword(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	result, err := c.Encode(ctx, []byte("secret"), EncodeOptions{Password: "right"})
	require.NoError(t, err)

	_, err = c.Decode(ctx, result.Sequences, DecodeOptions{Password: "wrong"})
	var authErr *codecerr.AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestEncryptedDecodeMissingPassword(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	result, err := c.Encode(ctx, []byte("secret"), EncodeOptions{Password: "right"})
	require.NoError(t, err)

	_, err = c.Decode(ctx, result.Sequences, DecodeOptions{})
	var authErr *codecerr.AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

// flipSymbols rewrites count symbols of seq spread across distinct shards so
// each flip lands in a different erasure unit.
func flipSymbols(t *testing.T, seq string, level ecc.Level, count int) string {
	t.Helper()
	s, ok := ecc.ShardSize(len(seq)/nucleotide.SymbolsPerByte, level)
	require.True(t, ok)

	shardSymbols := s * nucleotide.SymbolsPerByte
	locatorSymbols := level.TotalShards() * ecc.LocatorSize * nucleotide.SymbolsPerByte

	out := []byte(seq)
	for i := 0; i < count; i++ {
		pos := locatorSymbols + i*shardSymbols
		replacement := byte('A')
		if out[pos] == 'A' {
			replacement = 'G'
		}
		out[pos] = replacement
	}
	return string(out)
}

func TestDecodeRepairsWithinBound(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()
	payload := randomPayload(t, 200)

	for _, level := range []ecc.Level{ecc.Basic, ecc.Advanced} {
		result, err := c.Encode(ctx, payload, EncodeOptions{Level: level})
		require.NoError(t, err)

		damaged := append([]string(nil), result.Sequences...)
		for i := range damaged {
			damaged[i] = flipSymbols(t, damaged[i], level, level.CorrectionBound())
		}

		decoded, err := c.Decode(ctx, damaged, DecodeOptions{Level: level})
		require.NoError(t, err, "level %s", level)
		require.Equal(t, payload, decoded)
	}
}

func TestDecodeBeyondBoundFails(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	result, err := c.Encode(ctx, randomPayload(t, 40), EncodeOptions{Level: ecc.Basic})
	require.NoError(t, err)
	require.Len(t, result.Sequences, 1)

	damaged := flipSymbols(t, result.Sequences[0], ecc.Basic, ecc.Basic.CorrectionBound()+1)

	_, err = c.Decode(ctx, []string{damaged}, DecodeOptions{Level: ecc.Basic})
	require.Error(t, err)
	var uncorrectable *codecerr.UncorrectableError
	var checksum *codecerr.ChecksumMismatchError
	require.True(t, errors.As(err, &uncorrectable) || errors.As(err, &checksum), "got %v", err)
}

func TestDecodeCollectsAllFailures(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	result, err := c.Encode(ctx, randomPayload(t, 120), EncodeOptions{Level: ecc.Basic})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Sequences), 3)

	broken := append([]string(nil), result.Sequences...)
	broken[0] = flipSymbols(t, broken[0], ecc.Basic, ecc.Basic.CorrectionBound()+1)
	broken[1] = strings.Replace(broken[1], "A", "X", 1)

	_, err = c.Decode(ctx, broken, DecodeOptions{Level: ecc.Basic})
	var report *codecerr.DecodeReport
	require.ErrorAs(t, err, &report)
	require.Len(t, report.Failures, 2)
}

func TestDecodeInvalidSymbol(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	result, err := c.Encode(ctx, []byte("ok"), EncodeOptions{})
	require.NoError(t, err)

	bad := strings.Replace(result.Sequences[0], "A", "N", 1)
	_, err = c.Decode(ctx, []string{bad}, DecodeOptions{})
	var verr *codecerr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDecodeMissingSequence(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	result, err := c.Encode(ctx, randomPayload(t, 120), EncodeOptions{Level: ecc.Basic})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Sequences), 3)

	withGap := append(result.Sequences[:1:1], result.Sequences[2:]...)
	_, err = c.Decode(ctx, withGap, DecodeOptions{})
	var missing *codecerr.MissingChunkError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, 1, missing.Index)
}

func TestDecodeDuplicateSequence(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	result, err := c.Encode(ctx, randomPayload(t, 120), EncodeOptions{Level: ecc.Basic})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Sequences), 3)

	doubled := append([]string{result.Sequences[0]}, result.Sequences...)
	_, err = c.Decode(ctx, doubled, DecodeOptions{})
	var verr *codecerr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDecodeNoSequences(t *testing.T) {
	c := newTestCodec(t)

	_, err := c.Decode(context.Background(), nil, DecodeOptions{})
	var verr *codecerr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDecodeChecksumMismatch(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	// Hand-build a chunk whose header checksum disagrees with its data. The
	// redundancy layer sees a consistent block, so only the checksum trips.
	geo, err := solveGeometry(DefaultBaseLength, ecc.Basic)
	require.NoError(t, err)

	data := bytes.Repeat([]byte{0x5a}, geo.capacity)
	h := header.Header{
		Version:       header.Version,
		Index:         0,
		Total:         1,
		PayloadLength: uint32(geo.capacity),
		Level:         ecc.Basic,
		Checksum:      header.ChecksumOf(data) + 1,
	}
	block := make([]byte, geo.blockLen)
	copy(block, h.Encode())
	copy(block[header.Size:], data)

	protected, err := ecc.Protect(block, ecc.Basic)
	require.NoError(t, err)

	_, err = c.Decode(ctx, []string{nucleotide.BytesToSequence(protected)}, DecodeOptions{})
	var mismatch *codecerr.ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 0, mismatch.Chunk)
}

func TestEncodeConfigurationErrors(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	tests := []struct {
		name string
		opts EncodeOptions
	}{
		{"not a shard multiple", EncodeOptions{BaseLength: 100, Level: ecc.Basic}},
		{"advanced needs multiples of 48", EncodeOptions{BaseLength: 400, Level: ecc.Advanced}},
		{"too short for shard data", EncodeOptions{BaseLength: 160, Level: ecc.Basic}},
		{"no room for payload", EncodeOptions{BaseLength: 240, Level: ecc.Basic}},
		{"negative", EncodeOptions{BaseLength: -40, Level: ecc.Basic}},
		{"bad level", EncodeOptions{BaseLength: 480, Level: ecc.Level(9)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Encode(ctx, []byte("x"), tc.opts)
			var confErr *codecerr.ConfigurationError
			require.ErrorAs(t, err, &confErr)
		})
	}
}

func TestEncodeCancelledContext(t *testing.T) {
	c := newTestCodec(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Encode(ctx, []byte("x"), EncodeOptions{})
	require.ErrorIs(t, err, context.Canceled)

	_, err = c.Decode(ctx, []string{"AAAA"}, DecodeOptions{})
	require.ErrorIs(t, err, context.Canceled)
}
