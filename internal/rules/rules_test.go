package rules

import (
	"testing"

	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/formula"
	"github.com/fitchkit/natded/internal/goal"
	"github.com/fitchkit/natded/internal/proofline"
)

func premise(num int, wff string) proofline.Line {
	ln := proofline.Bootstrap(formula.MustParse(wff))
	ln.Number = num
	ln.Formula = formula.MustParse(wff)
	ln.Rule = "P"
	return ln
}

func TestAndElimDerivesEitherConjunct(t *testing.T) {
	proof := []proofline.Line{premise(1, "A"+alphabet.And+"B")}
	got := AndElim(proof)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[1].Formula.String() != "A" {
		t.Errorf("got %q, want A", got[1].Formula.String())
	}
}

func TestAndElimNoOpOnceBothConjunctsPresent(t *testing.T) {
	proof := []proofline.Line{
		premise(1, "A"+alphabet.And+"B"),
		premise(2, "A"),
		premise(3, "B"),
	}
	got := AndElim(proof)
	if len(got) != 3 {
		t.Errorf("got %d lines, want no-op at 3", len(got))
	}
}

func TestThenElimIsModusPonens(t *testing.T) {
	proof := []proofline.Line{
		premise(1, "A"+alphabet.Then+"B"),
		premise(2, "A"),
	}
	got := ThenElim(proof)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	if got[2].Formula.String() != "B" {
		t.Errorf("got %q, want B", got[2].Formula.String())
	}
}

func TestNotElimStripsDoubleNegation(t *testing.T) {
	proof := []proofline.Line{premise(1, alphabet.Not+"("+alphabet.Not+"A)")}
	got := NotElim(proof)
	if len(got) != 2 || got[1].Formula.String() != "A" {
		t.Fatalf("got %v, want A derived", got)
	}
}

func TestOrElimIsProofByCases(t *testing.T) {
	proof := []proofline.Line{
		premise(1, "A"+alphabet.Or+"B"),
		premise(2, "A"+alphabet.Then+"C"),
		premise(3, "B"+alphabet.Then+"C"),
	}
	got := OrElim(proof)
	if len(got) != 4 {
		t.Fatalf("got %d lines, want 4", len(got))
	}
	if got[3].Formula.String() != "C" {
		t.Errorf("got %q, want C", got[3].Formula.String())
	}
}

func TestIffElimProducesForwardConditional(t *testing.T) {
	proof := []proofline.Line{premise(1, "A"+alphabet.Iff+"B")}
	got := IffElim(proof)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[1].Formula.String() != "A"+alphabet.Then+"B" {
		t.Errorf("got %q, want A%sB", got[1].Formula.String(), alphabet.Then)
	}
}

func TestEqElimSubstitutes(t *testing.T) {
	proof := []proofline.Line{
		premise(1, "a=b"),
		premise(2, "P«a»"),
	}
	got := EqElim(proof)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	if got[2].Formula.String() != "P«b»" {
		t.Errorf("got %q, want P«b»", got[2].Formula.String())
	}
}

func TestAllElimInstantiatesAtGoalConstant(t *testing.T) {
	ln := proofline.Bootstrap(formula.MustParse("P«a»"))
	ln.Number = 1
	ln.Formula = formula.MustParse(alphabet.All + "xP«x»")
	ln.Rule = "P"
	proof := []proofline.Line{ln}
	got := AllElim(proof)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[1].Formula.String() != "P«a»" {
		t.Errorf("got %q, want P«a»", got[1].Formula.String())
	}
}

func TestVerIntroOnEmptyProofBootstraps(t *testing.T) {
	goals := []*goal.Goal{{Tree: formula.MustParse(alphabet.Verum)}}
	got := VerIntro(nil, goals)
	if len(got) != 1 || got[0].Formula.String() != alphabet.Verum {
		t.Fatalf("got %v, want single bootstrap line", got)
	}
}

func TestEqIntroDerivesReflexiveGoal(t *testing.T) {
	goals := []*goal.Goal{{Tree: formula.MustParse("a=a")}}
	got := EqIntro(nil, goals)
	if len(got) != 1 || got[0].Formula.String() != "a=a" {
		t.Fatalf("got %v, want a=a", got)
	}
}

func TestAndIntroCombinesTwoPremises(t *testing.T) {
	proof := []proofline.Line{premise(1, "A"), premise(2, "B")}
	goals := []*goal.Goal{{Tree: formula.MustParse("A" + alphabet.And + "B")}}
	got := AndIntro(proof, goals)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	if got[2].Formula.String() != "A"+alphabet.And+"B" {
		t.Errorf("got %q, want A%sB", got[2].Formula.String(), alphabet.And)
	}
}

func TestFalIntroThenElim(t *testing.T) {
	proof := []proofline.Line{
		premise(1, "A"),
		premise(2, alphabet.Not+"A"),
	}
	goals := []*goal.Goal{{Tree: formula.MustParse("B")}}
	got := FalIntro(proof, goals)
	if len(got) != 4 {
		t.Fatalf("got %d lines, want 4 (falsum then ex falso)", len(got))
	}
	if got[2].Formula.String() != alphabet.Falsum {
		t.Errorf("line 3 got %q, want %s", got[2].Formula.String(), alphabet.Falsum)
	}
	if got[3].Formula.String() != "B" {
		t.Errorf("line 4 got %q, want B", got[3].Formula.String())
	}
}

func TestOrIntroFindsEitherDisjunct(t *testing.T) {
	proof := []proofline.Line{premise(1, "A")}
	goals := []*goal.Goal{{Tree: formula.MustParse("A" + alphabet.Or + "B")}}
	got := OrIntro(proof, goals)
	if len(got) != 2 || got[1].Formula.String() != "A"+alphabet.Or+"B" {
		t.Fatalf("got %v, want A%sB derived", got, alphabet.Or)
	}
}

func TestPossElimDoubleNegationGuard(t *testing.T) {
	// The innermost open block belongs to a different ◇-premise than
	// the one whose instantiation looks "already open": PossElim must
	// decline rather than discharge the wrong block.
	prx := premise(1, alphabet.Poss+"A")

	other := premise(2, "[2]")
	other.Rule = alphabet.Poss + "S/2"
	other.Depth = 1
	other.Justification = []int{prx.Number}

	unrelated := premise(3, "[3]")
	unrelated.Rule = alphabet.Poss + "S/3"
	unrelated.Depth = 1
	unrelated.Justification = []int{5}

	proof := []proofline.Line{prx, other, unrelated}
	got := PossElim(proof)
	if len(got) != len(proof) {
		t.Errorf("expected no-op when the deepest open block isn't the one justified by this premise, got %d lines", len(got))
	}
}

func TestSomeElimBlockMembershipGuard(t *testing.T) {
	prx := premise(1, alphabet.Some+"xP«x»")

	other := premise(2, "[b]")
	other.Rule = alphabet.Some + "S/b"
	other.Depth = 1
	other.Justification = []int{prx.Number}

	unrelated := premise(3, "[c]")
	unrelated.Rule = alphabet.Some + "S/c"
	unrelated.Depth = 1
	unrelated.Justification = []int{7}

	proof := []proofline.Line{prx, other, unrelated}
	got := SomeElim(proof)
	if len(got) != len(proof) {
		t.Errorf("expected no-op when the deepest open block isn't the one justified by this premise, got %d lines", len(got))
	}
}
