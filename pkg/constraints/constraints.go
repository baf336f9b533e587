// Package constraints checks encoded sequences against synthesis-oriented
// composition rules: GC-content bounds and homopolymer run limits. The check
// is report-only — rewriting symbols to satisfy the rules would corrupt the
// protected data, so violations are surfaced to the caller and the sequences
// are left untouched.
package constraints

import (
	"fmt"
	"strings"
)

// Policy bounds the composition of a sequence.
type Policy struct {
	// GCTarget is the desired fraction of G and C symbols.
	GCTarget float64
	// GCTolerance is the accepted deviation from GCTarget in either direction.
	GCTolerance float64
	// MaxHomopolymer is the longest accepted run of one repeated symbol.
	MaxHomopolymer int
}

// DefaultPolicy returns the synthesis defaults: GC 0.5 ± 0.1, runs of at
// most 3.
func DefaultPolicy() Policy {
	return Policy{
		GCTarget:       0.5,
		GCTolerance:    0.1,
		MaxHomopolymer: 3,
	}
}

// Kind names the rule a violation belongs to.
type Kind string

const (
	KindGCContent   Kind = "gc-content"
	KindHomopolymer Kind = "homopolymer"
)

// Violation describes one rule breach in one sequence.
type Violation struct {
	Sequence int    `json:"sequence"`
	Kind     Kind   `json:"kind"`
	Position int    `json:"position"` // first symbol of the offending run; -1 for whole-sequence rules
	Detail   string `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("sequence %d: %s: %s", v.Sequence, v.Kind, v.Detail)
}

// Check inspects a single sequence. The sequence index is stamped onto the
// returned violations so reports from many sequences can be merged.
func Check(seq string, index int, policy Policy) []Violation {
	var violations []Violation
	if len(seq) == 0 {
		return nil
	}

	gc := strings.Count(seq, "G") + strings.Count(seq, "C") +
		strings.Count(seq, "g") + strings.Count(seq, "c")
	fraction := float64(gc) / float64(len(seq))
	low := policy.GCTarget - policy.GCTolerance
	high := policy.GCTarget + policy.GCTolerance
	if fraction < low || fraction > high {
		violations = append(violations, Violation{
			Sequence: index,
			Kind:     KindGCContent,
			Position: -1,
			Detail:   fmt.Sprintf("GC fraction %.3f outside %.2f..%.2f", fraction, low, high),
		})
	}

	if policy.MaxHomopolymer > 0 {
		runStart := 0
		for i := 1; i <= len(seq); i++ {
			if i < len(seq) && seq[i] == seq[runStart] {
				continue
			}
			if run := i - runStart; run > policy.MaxHomopolymer {
				violations = append(violations, Violation{
					Sequence: index,
					Kind:     KindHomopolymer,
					Position: runStart,
					Detail:   fmt.Sprintf("run of %d %c at position %d exceeds limit %d", run, seq[runStart], runStart, policy.MaxHomopolymer),
				})
			}
			runStart = i
		}
	}

	return violations
}

// CheckAll inspects every sequence and returns the merged violation list.
func CheckAll(seqs []string, policy Policy) []Violation {
	var violations []Violation
	for i, seq := range seqs {
		violations = append(violations, Check(seq, i, policy)...)
	}
	return violations
}
