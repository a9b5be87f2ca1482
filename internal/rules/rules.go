// Package rules implements the fixed catalogue of introduction and
// elimination procedures: one pair per connective, plus verum
// introduction, falsum introduction/elimination, and reiteration. Each
// procedure either appends new lines to the proof or leaves it
// unchanged. Most append exactly one; FalIntro also appends the FalElim
// line it chains into, and ThenIntro and NotIntro can append a
// reiteration line before their discharge. None of them ever raise, matching spec.md §4.4-4.6's
// closed, total rule library.
package rules

import (
	"strings"

	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/formula"
	"github.com/fitchkit/natded/internal/goal"
	"github.com/fitchkit/natded/internal/proofline"
)

// These constants name the stable rule tags a Line's Rule field can
// carry, apart from the assumption tags. The bare "S"-suffixed
// assumption tags are produced by internal/search; the "∃S/c"/"◇S/c"
// instantiated-assumption tags are built by SomeElim and PossElim.
const (
	AndE = alphabet.And + "E"
	AndI = alphabet.And + "I"
	OrE  = alphabet.Or + "E"
	OrI  = alphabet.Or + "I"
	ThenE = alphabet.Then + "E"
	ThenI = alphabet.Then + "I"
	IffE  = alphabet.Iff + "E"
	IffI  = alphabet.Iff + "I"
	NotE  = alphabet.Not + "E"
	NotI  = alphabet.Not + "I"
	VerI  = alphabet.Verum + "I"
	FalE  = alphabet.Falsum + "E"
	FalI  = alphabet.Falsum + "I"
	AllE  = alphabet.All + "E"
	AllI  = alphabet.All + "I"
	SomeE = alphabet.Some + "E"
	SomeI = alphabet.Some + "I"
	NecE  = alphabet.Nec + "E"
	NecI  = alphabet.Nec + "I"
	PossE = alphabet.Poss + "E"
	PossI = alphabet.Poss + "I"
	EqE   = alphabet.Eq + "E"
	EqI   = alphabet.Eq + "I"
	Reit  = "R"
)

// Elim is an elimination procedure: it only ever reads the proof.
type Elim func(proof []proofline.Line) []proofline.Line

// Intro is an introduction procedure: it additionally consults the
// current goal list to decide what's worth deriving.
type Intro func(proof []proofline.Line, goals []*goal.Goal) []proofline.Line

// ElimRules dispatches a connective glyph to its elimination procedure.
// The map itself has no order; ElimOrder gives the order they are tried.
var ElimRules = map[string]Elim{
	alphabet.And:  AndElim,
	alphabet.Not:  NotElim,
	alphabet.All:  AllElim,
	alphabet.Nec:  NecElim,
	alphabet.Then: ThenElim,
	alphabet.Iff:  IffElim,
	alphabet.Eq:   EqElim,
	alphabet.Or:   OrElim,
	alphabet.Some: SomeElim,
	alphabet.Poss: PossElim,
}

// IntroRules dispatches a connective glyph to its introduction
// procedure. The map itself has no order; IntroOrder gives the order
// they are tried.
var IntroRules = map[string]Intro{
	alphabet.Verum: VerIntro,
	alphabet.Eq:    EqIntro,
	alphabet.Or:    OrIntro,
	alphabet.Some:  SomeIntro,
	alphabet.Poss:  PossIntro,
	alphabet.And:   AndIntro,
	alphabet.Falsum: FalIntro,
	alphabet.Iff:   IffIntro,
	alphabet.Then:  ThenIntro,
	alphabet.Not:   NotIntro,
	alphabet.All:   AllIntro,
	alphabet.Nec:   NecIntro,
}

// ElimOrder is the fixed sequence internal/search tries elimination
// procedures in. Go map iteration has no stable order, so the driver
// loop walks this slice rather than ranging over ElimRules directly.
var ElimOrder = []string{
	alphabet.And, alphabet.Not, alphabet.All, alphabet.Nec, alphabet.Then,
	alphabet.Iff, alphabet.Eq, alphabet.Or, alphabet.Some, alphabet.Poss,
}

// IntroOrder is the fixed sequence internal/search tries introduction
// procedures in.
var IntroOrder = []string{
	alphabet.Verum, alphabet.Eq, alphabet.Or, alphabet.Some, alphabet.Poss,
	alphabet.And, alphabet.Falsum, alphabet.Iff, alphabet.Then, alphabet.Not,
	alphabet.All, alphabet.Nec,
}

func anyEqual(tree *formula.Formula, prems []proofline.Line) bool {
	for _, p := range prems {
		if tree.Equal(p.Formula) {
			return true
		}
	}
	return false
}

func noneEqual(tree *formula.Formula, prems []proofline.Line) bool {
	return !anyEqual(tree, prems)
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// combos2 enumerates every ordered pair drawn from prems (with
// repetition), mirroring itertools.product(prems, prems).
func combos2(prems []proofline.Line) [][2]proofline.Line {
	out := make([][2]proofline.Line, 0, len(prems)*len(prems))
	for _, x := range prems {
		for _, y := range prems {
			out = append(out, [2]proofline.Line{x, y})
		}
	}
	return out
}

// combos3 enumerates every ordered triple drawn from prems (with
// repetition).
func combos3(prems []proofline.Line) [][3]proofline.Line {
	out := make([][3]proofline.Line, 0, len(prems)*len(prems)*len(prems))
	for _, x := range prems {
		for _, y := range prems {
			for _, z := range prems {
				out = append(out, [3]proofline.Line{x, y, z})
			}
		}
	}
	return out
}

// pullPremConsts collects every item- or predicate-constant character
// (depending on whether v is an item or predicate variable) appearing
// anywhere across prems's rendered formulas.
func pullPremConsts(prems []proofline.Line, v rune) string {
	var b strings.Builder
	for _, p := range prems {
		b.WriteString(p.Formula.String())
	}
	s := b.String()
	set := alphabet.ItemConsts
	if !strings.ContainsRune(alphabet.ItemVars, v) {
		set = alphabet.PredConsts
	}
	seen := map[rune]bool{}
	var out strings.Builder
	for _, c := range s {
		if strings.ContainsRune(set, c) && !seen[c] {
			seen[c] = true
			out.WriteRune(c)
		}
	}
	return out.String()
}
