package ecc

import (
	"fmt"
	"strings"
)

// Level selects the redundancy ratio of the coder. It is a closed two-variant
// kind: the shard geometry and correction bound are fixed per level so that
// encode/decode compatibility is checkable structurally, never a free knob.
type Level uint8

const (
	// Basic appends two parity shards per block and repairs up to two
	// damaged shards.
	Basic Level = iota
	// Advanced appends four parity shards per block and repairs up to four
	// damaged shards.
	Advanced
)

// Valid reports whether l is a recognized level.
func (l Level) Valid() bool {
	return l == Basic || l == Advanced
}

func (l Level) String() string {
	switch l {
	case Basic:
		return "basic"
	case Advanced:
		return "advanced"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// ParseLevel parses the wire/config spelling of a level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return Basic, nil
	case "advanced":
		return Advanced, nil
	default:
		return 0, fmt.Errorf("unknown error-correction level %q (want basic or advanced)", s)
	}
}

// DataShards returns the number of data shards per block.
func (l Level) DataShards() int { return 8 }

// ParityShards returns the number of redundancy shards per block.
func (l Level) ParityShards() int {
	if l == Advanced {
		return 4
	}
	return 2
}

// TotalShards returns data plus parity shards.
func (l Level) TotalShards() int { return l.DataShards() + l.ParityShards() }

// CorrectionBound is the number of damaged shards the level guarantees to
// repair. A single corrupted byte damages at most one shard (or one locator
// entry, which costs one shard), so the bound also holds for that many
// arbitrarily placed corrupted bytes per block.
func (l Level) CorrectionBound() int { return l.ParityShards() }
