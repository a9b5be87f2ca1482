package simplify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fitchkit/natded/internal/formula"
	"github.com/fitchkit/natded/internal/proofline"
)

// formulaComparer compares *formula.Formula by canonical string, since
// the type's fields are all unexported and String() is its documented
// notion of equality (see Formula.Equal).
var formulaComparer = cmp.Comparer(func(a, b *formula.Formula) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
})

func ln(num, depth int, wff, rule string, jst []int) proofline.Line {
	return proofline.Line{Number: num, Depth: depth, Formula: formula.MustParse(wff), Rule: rule, Justification: jst}
}

func TestSimplifyDropsUnjustifiedLines(t *testing.T) {
	proof := []proofline.Line{
		ln(1, 0, "A", "P", nil),
		ln(2, 0, "B", "P", nil), // never used, should be pruned
		ln(3, 0, "A"+"∧"+"B", "P", nil),
		ln(4, 0, "A", "∧E", []int{3}),
	}
	got := Simplify(proof)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2 (line 3 and its renumbered consumer)", len(got))
	}
	if got[0].Number != 1 || got[0].Formula.String() != "A∧B" {
		t.Errorf("got first line %+v, want the renumbered conjunction", got[0])
	}
	if got[1].Number != 2 || len(got[1].Justification) != 1 || got[1].Justification[0] != 1 {
		t.Errorf("got second line %+v, want justification rewritten to [1]", got[1])
	}
}

func TestSimplifyKeepsTransitiveClosure(t *testing.T) {
	proof := []proofline.Line{
		ln(1, 0, "A", "P", nil),
		ln(2, 0, "A"+"→"+"B", "P", nil),
		ln(3, 0, "B", "→E", []int{1, 2}),
		ln(4, 0, "B"+"∨"+"C", "∨I", []int{3}),
	}
	got := Simplify(proof)
	if len(got) != 4 {
		t.Fatalf("got %d lines, want all 4 kept (all are ancestors of the last line)", len(got))
	}
	last := got[len(got)-1]
	if last.Justification[0] != 3 {
		t.Errorf("got last justification %v, want [3]", last.Justification)
	}
}

func TestSimplifyNoOpOnAlreadyMinimalProof(t *testing.T) {
	proof := []proofline.Line{ln(1, 0, "A", "P", nil)}
	got := Simplify(proof)
	if len(got) != 1 || got[0].Number != 1 {
		t.Fatalf("got %v, want unchanged single line", got)
	}
}

// TestSimplifyIsIdempotent checks the property that simplifying an
// already-simplified proof changes nothing: every line is already
// essential and already contiguously numbered, so a second pass must
// produce a structurally identical result.
func TestSimplifyIsIdempotent(t *testing.T) {
	proof := []proofline.Line{
		ln(1, 0, "A", "P", nil),
		ln(2, 0, "B", "P", nil),
		ln(3, 0, "A"+"∧"+"B", "P", nil),
		ln(4, 0, "A", "∧E", []int{3}),
		ln(5, 0, "B", "∧E", []int{3}),
		ln(6, 0, "B"+"∧"+"A", "∧I", []int{5, 4}),
	}
	once := Simplify(proof)
	twice := Simplify(once)
	if diff := cmp.Diff(once, twice, formulaComparer); diff != "" {
		t.Errorf("Simplify is not idempotent (-once +twice):\n%s", diff)
	}
}
