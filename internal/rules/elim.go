package rules

import (
	"strconv"
	"strings"

	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/formula"
	"github.com/fitchkit/natded/internal/proofline"
)

// AndElim derives either conjunct of a conjunctive premise, whichever
// isn't already present among the valid premises.
func AndElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, prx := range prems {
		if !formula.HasOp(prx.Formula, alphabet.And) {
			continue
		}
		if noneEqual(prx.Formula.Left(), prems) {
			return append(proof, proofline.MakeLine(proof, prx.Formula.Left(), AndE, []proofline.Line{prx}))
		}
		if noneEqual(prx.Formula.Right(), prems) {
			return append(proof, proofline.MakeLine(proof, prx.Formula.Right(), AndE, []proofline.Line{prx}))
		}
	}
	return proof
}

// NotElim derives B from ¬¬B.
func NotElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, prx := range prems {
		if !formula.HasOp(prx.Formula, alphabet.Not) {
			continue
		}
		if !formula.HasOp(prx.Formula.Right(), alphabet.Not) {
			continue
		}
		drvTree := prx.Formula.Right().Right()
		if anyEqual(drvTree, prems) {
			continue
		}
		return append(proof, proofline.MakeLine(proof, drvTree, NotE, []proofline.Line{prx}))
	}
	return proof
}

// ThenElim is modus ponens: from A→B and A, derive B.
func ThenElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, pair := range combos2(prems) {
		prx, pry := pair[0], pair[1]
		if !formula.HasOp(prx.Formula, alphabet.Then) {
			continue
		}
		if !pry.Formula.Equal(prx.Formula.Left()) {
			continue
		}
		if anyEqual(prx.Formula.Right(), prems) {
			continue
		}
		return append(proof, proofline.MakeLine(proof, prx.Formula.Right(), ThenE, []proofline.Line{prx, pry}))
	}
	return proof
}

// IffElim derives either conditional direction licensed by a
// biconditional premise.
func IffElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, prx := range prems {
		if !formula.HasOp(prx.Formula, alphabet.Iff) {
			continue
		}
		fwd := formula.MustParse("(" + prx.Formula.Left().String() + ")" + alphabet.Then + "(" + prx.Formula.Right().String() + ")")
		if noneEqual(fwd, prems) {
			return append(proof, proofline.MakeLine(proof, fwd, IffE, []proofline.Line{prx}))
		}
		rev := formula.MustParse("(" + prx.Formula.Right().String() + ")" + alphabet.Then + "(" + prx.Formula.Left().String() + ")")
		if noneEqual(rev, prems) {
			return append(proof, proofline.MakeLine(proof, rev, IffE, []proofline.Line{prx}))
		}
	}
	return proof
}

// EqElim substitutes one identity term for the other across any premise
// that mentions it.
func EqElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, pair := range combos2(prems) {
		prx, pry := pair[0], pair[1]
		if !formula.HasOp(prx.Formula, alphabet.Eq) {
			continue
		}
		if prx.Number == pry.Number {
			continue
		}
		lArg, rArg := prx.Formula.Args()[0], prx.Formula.Args()[1]
		pryStr := pry.Formula.String()
		if strings.Contains(pryStr, lArg) {
			drv := formula.MustParse(strings.Replace(pryStr, lArg, rArg, 1))
			if noneEqual(drv, prems) {
				return append(proof, proofline.MakeLine(proof, drv, EqE, []proofline.Line{prx, pry}))
			}
		}
		if strings.Contains(pryStr, rArg) {
			drv := formula.MustParse(strings.Replace(pryStr, rArg, lArg, 1))
			if noneEqual(drv, prems) {
				return append(proof, proofline.MakeLine(proof, drv, EqE, []proofline.Line{prx, pry}))
			}
		}
	}
	return proof
}

// OrElim is proof by cases: from A∨B, A→C, and B→C (with matching
// consequents), derive C.
func OrElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, triple := range combos3(prems) {
		prx, pry, prz := triple[0], triple[1], triple[2]
		if !formula.HasOp(prx.Formula, alphabet.Or) {
			continue
		}
		if !formula.HasOp(pry.Formula, alphabet.Then) {
			continue
		}
		if !formula.HasOp(prz.Formula, alphabet.Then) {
			continue
		}
		if !pry.Formula.Right().Equal(prz.Formula.Right()) {
			continue
		}
		if !pry.Formula.Left().Equal(prx.Formula.Left()) {
			continue
		}
		if !prz.Formula.Left().Equal(prx.Formula.Right()) {
			continue
		}
		if anyEqual(prz.Formula.Right(), prems) {
			continue
		}
		return append(proof, proofline.MakeLine(proof, prz.Formula.Right(), OrE, []proofline.Line{prx, pry, prz}))
	}
	return proof
}

// AllElim instantiates a universally quantified premise at every
// constant available to the proof (the goal's own vocabulary plus
// whatever premises have introduced).
func AllElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, prx := range prems {
		if !formula.HasOp(prx.Formula, alphabet.All) {
			continue
		}
		v := prx.Formula.Variable()
		premConsts := pullPremConsts(prems, v)
		if strings.ContainsRune(alphabet.ItemVars, v) {
			premConsts += prx.GoalItemConsts
		} else {
			premConsts += prx.GoalPredConsts
		}
		for _, c := range premConsts {
			drv := formula.Instantiate(prx.Formula, string(c))
			if anyEqual(drv, prems) {
				continue
			}
			return append(proof, proofline.MakeLine(proof, drv, AllE, []proofline.Line{prx}))
		}
	}
	return proof
}

// NecElim instantiates a necessity premise at every world digit that
// appears anywhere among the valid premises, skipping a world the
// premise already names.
func NecElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	worlds := collectWorldDigits(prems)
	if worlds == "" {
		return proof
	}
	for _, prx := range prems {
		if !formula.HasOp(prx.Formula, alphabet.Nec) {
			continue
		}
		for _, w := range worlds {
			if strings.ContainsRune(prx.Formula.String(), w) {
				continue
			}
			drv := formula.Instantiate(prx.Formula, string(w))
			if anyEqual(drv, prems) {
				continue
			}
			return append(proof, proofline.MakeLine(proof, drv, NecE, []proofline.Line{prx}))
		}
	}
	return proof
}

func collectWorldDigits(prems []proofline.Line) string {
	var b strings.Builder
	for _, p := range prems {
		for _, c := range p.Formula.String() {
			if c >= '0' && c <= '9' {
				b.WriteRune(c)
			}
		}
	}
	return b.String()
}

// SomeElim discharges an existential: absent any open instantiation
// assumption, it opens one at a constant fresh to the proof (relabeling
// the rule "∃S/c"); once such a block is open and its conclusion avoids
// mentioning the chosen constant, it discharges the block's result.
func SomeElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, prx := range prems {
		if !formula.HasOp(prx.Formula, alphabet.Some) {
			continue
		}
		smPrefix := alphabet.Some + "S"
		instantiationOpen := false
		for _, p := range prems {
			if strings.HasPrefix(p.Rule, smPrefix) && containsInt(p.Justification, prx.Number) {
				instantiationOpen = true
				break
			}
		}
		if !instantiationOpen {
			if prx.Rule == SomeI || prx.Rule == SomeE {
				continue
			}
			v := prx.Formula.Variable()
			premConsts := pullPremConsts(prems, v)
			consts := alphabet.ItemConsts
			if !strings.ContainsRune(alphabet.ItemVars, v) {
				consts = alphabet.PredConsts
			}
			arb := firstAvailable(consts, premConsts)
			if arb == "" {
				continue
			}
			drvTree := formula.Instantiate(prx.Formula, arb)
			rule := alphabet.Some + "S/" + arb
			return append(proof, proofline.MakeLine(proof, drvTree, rule, []proofline.Line{prx}))
		}

		smBlock := proofline.DeepestOpenBlock(prems)
		if len(smBlock) == 0 {
			continue
		}
		smLine := smBlock[0]
		if !strings.HasPrefix(smLine.Rule, smPrefix) {
			continue
		}
		// The open block must actually be the one this premise's
		// existential licenses, not an unrelated block that merely
		// happens to be innermost.
		if !containsInt(smLine.Justification, prx.Number) {
			continue
		}
		smConst := lastSlashField(smLine.Rule)
		for _, pry := range smBlock[1:] {
			if strings.Contains(pry.Formula.String(), smConst) {
				continue
			}
			jst := []proofline.Line{prx, smLine, pry}
			return append(proof, proofline.MakeLine(proof, pry.Formula, SomeE, jst))
		}
	}
	return proof
}

// firstAvailable returns the last character of candidates that isn't in
// excluded, mirroring the original's "consts minus prem_consts, then
// take the last remaining character" selection.
func firstAvailable(candidates, excluded string) string {
	var remaining []rune
	for _, c := range candidates {
		if !strings.ContainsRune(excluded, c) {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		return ""
	}
	return string(remaining[len(remaining)-1])
}

func lastSlashField(rule string) string {
	parts := strings.Split(rule, "/")
	return parts[len(parts)-1]
}

// PossElim mirrors SomeElim for possibility, opening a fresh-world
// assumption or discharging an open one. The original carried a double-
// negated guard ("if not prx.lnum not in sm_line.jstlns") where a
// single negation was intended: abort when prx's line is *not* among
// the lines the open block's assumption actually justifies (meaning the
// assumption belongs to some other, already-closed block).
func PossElim(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	prems := proofline.ValidPremises(proof)
	for _, prx := range prems {
		if !formula.HasOp(prx.Formula, alphabet.Poss) {
			continue
		}
		smPrefix := alphabet.Poss + "S"
		instantiationOpen := false
		for _, p := range prems {
			if strings.HasPrefix(p.Rule, smPrefix) && containsInt(p.Justification, prx.Number) {
				instantiationOpen = true
				break
			}
		}
		if !instantiationOpen {
			if prx.Rule == PossI || prx.Rule == PossE {
				continue
			}
			premsStr := allFormulaText(prems)
			warb := lastUnusedWorldDigit(premsStr)
			if warb == "" {
				continue
			}
			drvTree := formula.Instantiate(prx.Formula, warb)
			rule := alphabet.Poss + "S/" + warb
			return append(proof, proofline.MakeLine(proof, drvTree, rule, []proofline.Line{prx}))
		}

		smBlock := proofline.DeepestOpenBlock(prems)
		if len(smBlock) == 0 {
			continue
		}
		smLine := smBlock[0]
		if !containsInt(smLine.Justification, prx.Number) {
			return proof
		}
		smConst := lastSlashField(smLine.Rule)
		smd := smLine.Depth
		for _, pry := range smBlock[1:] {
			if strings.Contains(pry.Formula.String(), smConst) {
				continue
			}
			redundant := false
			for _, p := range prems {
				if pry.Formula.Equal(p.Formula) && p.Depth < smd {
					redundant = true
					break
				}
			}
			if redundant {
				continue
			}
			jst := []proofline.Line{prx, smLine, pry}
			return append(proof, proofline.MakeLine(proof, pry.Formula, PossE, jst))
		}
	}
	return proof
}

func allFormulaText(prems []proofline.Line) string {
	var b strings.Builder
	for _, p := range prems {
		b.WriteString(p.Formula.String())
	}
	return b.String()
}

// lastUnusedWorldDigit returns the greatest digit 1-9 not already
// appearing in present, matching the original's "reversed(warbs)" which
// tries the largest fresh world first.
func lastUnusedWorldDigit(present string) string {
	for d := 9; d >= 1; d-- {
		c := strconv.Itoa(d)
		if !strings.Contains(present, c) {
			return c
		}
	}
	return ""
}
