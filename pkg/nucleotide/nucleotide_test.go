package nucleotide

import (
	"bytes"
	"strings"
	"testing"

	"github.com/seqforge/dna-codec/pkg/codecerr"
	"github.com/stretchr/testify/require"
)

func TestBytesToSequenceMapping(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, ""},
		{"zero byte", []byte{0x00}, "AAAA"},
		{"all ones", []byte{0xFF}, "GGGG"},
		{"mixed", []byte{0x1B}, "ATCG"}, // 00 01 10 11
		{"two bytes", []byte{0xE4, 0x39}, "GCTA" + "AGCT"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BytesToSequence(tc.data)
			require.Equal(t, tc.want, got)
			require.Len(t, got, len(tc.data)*SymbolsPerByte)
		})
	}
}

func TestRoundTripAllBytes(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	seq := BytesToSequence(data)
	require.Len(t, seq, 256*SymbolsPerByte)
	for _, r := range seq {
		require.Contains(t, Alphabet, string(r))
	}

	back, err := SequenceToBytes(seq)
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, back))
}

func TestSequenceToBytesNormalizesCase(t *testing.T) {
	back, err := SequenceToBytes("atcg")
	require.NoError(t, err)
	require.Equal(t, []byte{0x1B}, back)

	mixed, err := SequenceToBytes("AtCg")
	require.NoError(t, err)
	require.Equal(t, []byte{0x1B}, mixed)
}

func TestSequenceToBytesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		seq  string
	}{
		{"length not multiple of four", "ATC"},
		{"unknown symbol", "ATCN"},
		{"whitespace", "ATC "},
		{"unicode", "ATCé"},
		{"long with one bad symbol", strings.Repeat("ACGT", 10) + "ACGU"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SequenceToBytes(tc.seq)
			require.Error(t, err)
			var verr *codecerr.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestEmptySequence(t *testing.T) {
	back, err := SequenceToBytes("")
	require.NoError(t, err)
	require.Empty(t, back)
}
