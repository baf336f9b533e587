package constraints

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckBalancedSequencePasses(t *testing.T) {
	// Alternating pattern: GC fraction 0.5, longest run 1.
	seq := strings.Repeat("AGCT", 25)
	require.Empty(t, Check(seq, 0, DefaultPolicy()))
}

func TestCheckGCContent(t *testing.T) {
	tests := []struct {
		name    string
		seq     string
		violate bool
	}{
		{"all AT", strings.Repeat("AT", 50), true},
		{"all GC", strings.Repeat("GC", 50), true},
		{"at lower bound", strings.Repeat("GC", 20) + strings.Repeat("AT", 30), false}, // 0.4
		{"slightly below bound", strings.Repeat("GC", 19) + strings.Repeat("AT", 31), true},
		{"lowercase counted", strings.Repeat("gc", 50), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			violations := Check(tc.seq, 3, Policy{GCTarget: 0.5, GCTolerance: 0.1, MaxHomopolymer: 0})
			if !tc.violate {
				require.Empty(t, violations)
				return
			}
			require.Len(t, violations, 1)
			require.Equal(t, KindGCContent, violations[0].Kind)
			require.Equal(t, 3, violations[0].Sequence)
		})
	}
}

func TestCheckHomopolymer(t *testing.T) {
	policy := Policy{GCTarget: 0.5, GCTolerance: 0.5, MaxHomopolymer: 3}

	require.Empty(t, Check("AAAGCT", 0, policy))

	violations := Check("AAAAGCT", 0, policy)
	require.Len(t, violations, 1)
	require.Equal(t, KindHomopolymer, violations[0].Kind)
	require.Equal(t, 0, violations[0].Position)

	// Run at the very end of the sequence must also be caught.
	violations = Check("AGCTTTTT", 0, policy)
	require.Len(t, violations, 1)
	require.Equal(t, 3, violations[0].Position)

	// Two separate runs are reported separately.
	violations = Check("GGGGACTTTT", 0, policy)
	require.Len(t, violations, 2)
}

func TestCheckAllStampsIndexes(t *testing.T) {
	policy := Policy{GCTarget: 0.5, GCTolerance: 0.5, MaxHomopolymer: 3}
	violations := CheckAll([]string{"AGCT", "AAAAA", "AGCT", "CCCCC"}, policy)
	require.Len(t, violations, 2)
	require.Equal(t, 1, violations[0].Sequence)
	require.Equal(t, 3, violations[1].Sequence)
}

func TestCheckEmptySequence(t *testing.T) {
	require.Empty(t, Check("", 0, DefaultPolicy()))
}
