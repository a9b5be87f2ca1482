package rules

import (
	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/formula"
	"github.com/fitchkit/natded/internal/goal"
	"github.com/fitchkit/natded/internal/proofline"
)

// VerIntro derives ⊤ whenever some open goal asks for it: the very
// first line of an empty proof (a bare bootstrap, no justification), or
// an ordinary derived line once the proof already has lines.
func VerIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	wantsVerum := false
	for _, g := range goals {
		if formula.HasOp(g.Tree, alphabet.Verum) || g.Tree.Kind() == formula.KindVerum {
			wantsVerum = true
			break
		}
	}
	if !wantsVerum {
		return proof
	}
	verum := formula.MustParse(alphabet.Verum)
	if len(proof) == 0 {
		ln := proofline.Bootstrap(goals[0].Tree)
		ln.Number = 1
		ln.Rule = VerI
		return []proofline.Line{ln}
	}
	prems := proofline.ValidPremises(proof)
	if anyEqual(verum, prems) {
		return proof
	}
	return append(proof, proofline.MakeLine(proof, verum, VerI, nil))
}

// EqIntro derives a reflexive identity a=a once some goal asks for
// exactly that.
func EqIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	for _, g := range goals {
		if g.Tree.Kind() != formula.KindEquality {
			continue
		}
		args := g.Tree.Args()
		if len(args) < 2 || args[0] != args[len(args)-1] {
			continue
		}
		if len(proof) == 0 {
			ln := proofline.Bootstrap(g.Tree)
			ln.Number = 1
			ln.Formula = g.Tree
			ln.Rule = EqI
			return []proofline.Line{ln}
		}
		prems := proofline.ValidPremises(proof)
		if anyEqual(g.Tree, prems) {
			continue
		}
		return append(proof, proofline.MakeLine(proof, g.Tree, EqI, nil))
	}
	return proof
}

// OrIntro derives a disjunctive goal once either disjunct is already a
// premise.
func OrIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, g := range goals {
		if !formula.HasOp(g.Tree, alphabet.Or) {
			continue
		}
		if anyEqual(g.Tree, prems) {
			continue
		}
		for _, prx := range prems {
			if prx.Formula.Equal(g.Tree.Left()) || prx.Formula.Equal(g.Tree.Right()) {
				return append(proof, proofline.MakeLine(proof, g.Tree, OrI, []proofline.Line{prx}))
			}
		}
	}
	return proof
}

// SomeIntro derives an existential goal once some premise matches one
// of its instantiations at a constant drawn from that single premise's
// own vocabulary.
func SomeIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, g := range goals {
		if g.Tree.Kind() != formula.KindQuantifier || g.Tree.Op() != alphabet.Some {
			continue
		}
		if anyEqual(g.Tree, prems) {
			continue
		}
		for _, prx := range prems {
			premConsts := pullPremConsts([]proofline.Line{prx}, g.Tree.Variable())
			matched := false
			for _, c := range premConsts {
				if formula.Instantiate(g.Tree, string(c)).Equal(prx.Formula) {
					matched = true
					break
				}
			}
			if matched {
				return append(proof, proofline.MakeLine(proof, g.Tree, SomeI, []proofline.Line{prx}))
			}
		}
	}
	return proof
}

// PossIntro derives a possibility from any premise that still carries a
// world tag, stripping that world's stamp back off before wrapping the
// result in ◇(...).
func PossIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, prx := range prems {
		stripped, ok := stripLastWorldTag(prx.Formula.String())
		if !ok {
			continue
		}
		drv := formula.MustParse(alphabet.Poss + "(" + stripped + ")")
		if anyEqual(drv, prems) {
			continue
		}
		return append(proof, proofline.MakeLine(proof, drv, PossI, []proofline.Line{prx}))
	}
	return proof
}

// stripLastWorldTag removes the last "_<digit>" world stamp found in s,
// reporting whether one was present at all.
func stripLastWorldTag(s string) (string, bool) {
	last := -1
	rs := []rune(s)
	for i := 0; i < len(rs)-1; i++ {
		if rs[i] == '_' && rs[i+1] >= '0' && rs[i+1] <= '9' {
			last = i
		}
	}
	if last < 0 {
		return "", false
	}
	return string(rs[:last]) + string(rs[last+2:]), true
}

// AndIntro derives a conjunctive goal once both conjuncts appear among
// the premises (in either order).
func AndIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, g := range goals {
		if !formula.HasOp(g.Tree, alphabet.And) {
			continue
		}
		if anyEqual(g.Tree, prems) {
			continue
		}
		for _, pair := range combos2(prems) {
			prx, pry := pair[0], pair[1]
			if prx.Formula.Equal(g.Tree.Left()) && pry.Formula.Equal(g.Tree.Right()) {
				return append(proof, proofline.MakeLine(proof, g.Tree, AndI, []proofline.Line{prx, pry}))
			}
		}
	}
	return proof
}

// FalElim is ex falso quodlibet: once ⊥ is a premise, every goal is
// derivable directly from it.
func FalElim(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	var falsePrem *proofline.Line
	for i := range prems {
		if formula.HasOp(prems[i].Formula, alphabet.Falsum) || prems[i].Formula.Kind() == formula.KindFalsum {
			falsePrem = &prems[i]
			break
		}
	}
	if falsePrem == nil {
		return proof
	}
	for _, g := range goals {
		if anyEqual(g.Tree, prems) {
			continue
		}
		return append(proof, proofline.MakeLine(proof, g.Tree, FalE, []proofline.Line{*falsePrem}))
	}
	return proof
}

// FalIntro derives ⊥ from a premise and its negation; once ⊥ is
// present it defers entirely to FalElim, matching how the reference
// implementation chains the two.
func FalIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	falsum := formula.MustParse(alphabet.Falsum)
	if anyEqual(falsum, prems) {
		return FalElim(proof, goals)
	}
	for _, pair := range combos2(prems) {
		prx, pry := pair[0], pair[1]
		if !formula.HasOp(pry.Formula, alphabet.Not) {
			continue
		}
		if !prx.Formula.Equal(pry.Formula.Right()) {
			continue
		}
		next := append(proof, proofline.MakeLine(proof, falsum, FalI, []proofline.Line{prx, pry}))
		return FalElim(next, goals)
	}
	return proof
}

// IffIntro derives a biconditional goal once both directional
// conditionals (each other's converse, matching the goal's two sides)
// are already premises.
func IffIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, g := range goals {
		if !formula.HasOp(g.Tree, alphabet.Iff) {
			continue
		}
		if anyEqual(g.Tree, prems) {
			continue
		}
		for _, pair := range combos2(prems) {
			prx, pry := pair[0], pair[1]
			if !formula.HasOp(prx.Formula, alphabet.Then) || !formula.HasOp(pry.Formula, alphabet.Then) {
				continue
			}
			if !prx.Formula.Left().Equal(pry.Formula.Right()) || !prx.Formula.Right().Equal(pry.Formula.Left()) {
				continue
			}
			if !prx.Formula.Left().Equal(g.Tree.Left()) || !prx.Formula.Right().Equal(g.Tree.Right()) {
				continue
			}
			return append(proof, proofline.MakeLine(proof, g.Tree, IffI, []proofline.Line{prx, pry}))
		}
	}
	return proof
}

// ThenIntro discharges a conditional goal's open assumption block:
// finds the deepest open block, and if it was opened for the goal's own
// antecedent, either finds the consequent already inside the block, or
// reiterates it forward from before the block was opened.
func ThenIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	smBlock := proofline.DeepestOpenBlock(prems)
	if len(smBlock) == 0 {
		return proof
	}
	smLine := smBlock[0]
	if !runeHasPrefix(smLine.Rule, alphabet.Then) {
		return proof
	}
	smd := smLine.Depth
	for _, g := range goals {
		if !formula.HasOp(g.Tree, alphabet.Then) {
			continue
		}
		if g.Depth != smd-1 {
			continue
		}
		if !g.Tree.Left().Equal(smLine.Formula) {
			continue
		}
		for _, pry := range smBlock[1:] {
			if pry.Formula.Equal(g.Tree.Right()) {
				return append(proof, proofline.MakeLine(proof, g.Tree, ThenI, []proofline.Line{smLine, pry}))
			}
		}
		for _, pry := range prems {
			if pry.Number >= smLine.Number {
				continue
			}
			if pry.Formula.Equal(g.Tree.Right()) {
				reiterated := proofline.MakeLine(proof, pry.Formula, Reit, []proofline.Line{pry})
				return ThenIntro(append(proof, reiterated), goals)
			}
		}
	}
	return proof
}

func runeHasPrefix(s, prefix string) bool {
	rs, rp := []rune(s), []rune(prefix)
	if len(rs) < len(rp) {
		return false
	}
	for i, r := range rp {
		if rs[i] != r {
			return false
		}
	}
	return true
}

// NotIntro discharges a ¬-opened assumption block once it contains ⊥,
// deriving the negation of the assumption; if the contradiction sits
// before the block instead, it's reiterated forward first.
func NotIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	smBlock := proofline.DeepestOpenBlock(prems)
	if len(smBlock) == 0 {
		return proof
	}
	smLine := smBlock[0]
	if !runeHasPrefix(smLine.Rule, alphabet.Not) {
		return proof
	}
	falsum := formula.MustParse(alphabet.Falsum)
	for _, pry := range smBlock[1:] {
		if pry.Formula.Equal(falsum) {
			drv := formula.MustParse(alphabet.Not + "(" + smLine.Formula.String() + ")")
			return append(proof, proofline.MakeLine(proof, drv, NotI, []proofline.Line{smLine, pry}))
		}
	}
	for _, pry := range prems {
		if pry.Number >= smLine.Number {
			continue
		}
		if pry.Formula.Equal(falsum) {
			reiterated := proofline.MakeLine(proof, pry.Formula, Reit, []proofline.Line{pry})
			return NotIntro(append(proof, reiterated), goals)
		}
	}
	return proof
}

// AllIntro discharges a ∀-opened assumption block: once the block's
// placeholder instantiation of a universal goal appears inside it, the
// bare quantified goal is derived.
func AllIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	smBlock := proofline.DeepestOpenBlock(prems)
	if len(smBlock) == 0 {
		return proof
	}
	smLine := smBlock[0]
	if !runeHasPrefix(smLine.Rule, alphabet.All) {
		return proof
	}
	arb := string(smLine.Formula.Variable())
	smd := smLine.Depth
	for _, g := range goals {
		if g.Tree.Kind() != formula.KindQuantifier || g.Tree.Op() != alphabet.All {
			continue
		}
		if g.Depth != smd-1 {
			continue
		}
		want := formula.Instantiate(g.Tree, arb)
		for _, pry := range smBlock {
			if pry.Formula.Equal(want) {
				return append(proof, proofline.MakeLine(proof, g.Tree, AllI, []proofline.Line{smLine, pry}))
			}
		}
	}
	return proof
}

// NecIntro discharges a ◻-opened assumption block the same way AllIntro
// discharges a ∀ one, keyed on the block's world tag instead of an item
// constant.
func NecIntro(proof []proofline.Line, goals []*goal.Goal) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	smBlock := proofline.DeepestOpenBlock(prems)
	if len(smBlock) == 0 {
		return proof
	}
	smLine := smBlock[0]
	if !runeHasPrefix(smLine.Rule, alphabet.Nec) {
		return proof
	}
	world := lastSlashField(smLine.Rule)
	if world == smLine.Rule {
		world = string(smLine.Formula.Variable())
	}
	smd := smLine.Depth
	for _, g := range goals {
		if !formula.HasOp(g.Tree, alphabet.Nec) {
			continue
		}
		if g.Depth != smd-1 {
			continue
		}
		want := formula.Instantiate(g.Tree, world)
		for _, pry := range smBlock {
			if pry.Formula.Equal(want) {
				return append(proof, proofline.MakeLine(proof, g.Tree, NecI, []proofline.Line{smLine, pry}))
			}
		}
	}
	return proof
}
