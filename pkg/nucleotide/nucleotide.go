// Package nucleotide maps bytes onto the four-letter nucleotide alphabet.
// Each byte becomes exactly four symbols of two bits each, high bits first,
// so the mapping is a pure bijection with no padding and no reordering.
package nucleotide

import (
	"fmt"
	"strings"

	"github.com/seqforge/dna-codec/pkg/codecerr"
)

// Alphabet lists the symbols in two-bit value order: 00→A 01→T 10→C 11→G.
const Alphabet = "ATCG"

// SymbolsPerByte is the expansion factor of the mapping.
const SymbolsPerByte = 4

var symbolValues [256]int8

func init() {
	for i := range symbolValues {
		symbolValues[i] = -1
	}
	for v := 0; v < len(Alphabet); v++ {
		symbolValues[Alphabet[v]] = int8(v)
		symbolValues[Alphabet[v]+'a'-'A'] = int8(v)
	}
}

// BytesToSequence converts data into a nucleotide sequence of exactly
// 4*len(data) symbols.
func BytesToSequence(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * SymbolsPerByte)
	for _, by := range data {
		b.WriteByte(Alphabet[by>>6&0x03])
		b.WriteByte(Alphabet[by>>4&0x03])
		b.WriteByte(Alphabet[by>>2&0x03])
		b.WriteByte(Alphabet[by&0x03])
	}
	return b.String()
}

// SequenceToBytes converts a nucleotide sequence back into bytes. Lowercase
// input is accepted; any character outside the alphabet or a length that is
// not a multiple of four fails validation.
func SequenceToBytes(seq string) ([]byte, error) {
	if len(seq)%SymbolsPerByte != 0 {
		return nil, &codecerr.ValidationError{
			Chunk:  -1,
			Reason: fmt.Sprintf("sequence length %d is not a multiple of %d", len(seq), SymbolsPerByte),
		}
	}

	out := make([]byte, len(seq)/SymbolsPerByte)
	for i := 0; i < len(seq); i += SymbolsPerByte {
		var by byte
		for j := 0; j < SymbolsPerByte; j++ {
			v := symbolValues[seq[i+j]]
			if v < 0 {
				return nil, &codecerr.ValidationError{
					Chunk:  -1,
					Reason: fmt.Sprintf("symbol %q at position %d is not in alphabet %s", seq[i+j], i+j, Alphabet),
				}
			}
			by = by<<2 | byte(v)
		}
		out[i/SymbolsPerByte] = by
	}
	return out, nil
}
