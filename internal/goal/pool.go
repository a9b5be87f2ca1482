// Package goal plans the ordered sequence of subgoals a target formula
// decomposes into, tracking the fresh arbitrary-constant pools consumed
// as elimination and discharge rules are scheduled, per spec.md §4.3.
package goal

import (
	"strings"

	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/dnerr"
	"github.com/fitchkit/natded/internal/formula"
)

// worldTags is the set of world digits goal planning draws from for
// ◇-introduction candidates; it includes "0" in addition to the 1-9
// range internal/alphabet reserves for stamped worlds elsewhere.
const worldTags = "0" + alphabet.WorldDigits

// Pool is the shared, depleting supply of fresh item constants,
// predicate constants, and world digits available to a goal tree.
// Every Goal produced while planning a single top-level formula shares
// one Pool by reference: popping a constant for one subgoal removes it
// from what every sibling and descendant subgoal sees next, exactly as
// the arbitrary-constant dictionary in the original goal planner is
// threaded and mutated across recursive calls rather than copied.
type Pool struct {
	Item  string
	Pred  string
	World string
}

// FindArbs computes the constants available to a set of formulas: every
// item constant, predicate constant, and world digit that does not
// already occur in any of their canonical strings.
func FindArbs(trees ...*formula.Formula) *Pool {
	var b strings.Builder
	for _, t := range trees {
		b.WriteString(t.String())
	}
	present := b.String()
	return &Pool{
		Item:  withhold(alphabet.ItemConsts, present),
		Pred:  withhold(alphabet.PredConsts, present),
		World: withhold(alphabet.WorldDigits, present),
	}
}

func withhold(candidates, present string) string {
	var b strings.Builder
	for _, c := range candidates {
		if !strings.ContainsRune(present, c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// popItem removes and returns the first available item constant,
// reporting dnerr.ExhaustedPool if none remain.
func (p *Pool) popItem() (string, error) {
	if p.Item == "" {
		return "", dnerr.New(dnerr.ExhaustedPool, "no item constants left to allocate")
	}
	c := string(p.Item[0])
	p.Item = p.Item[1:]
	return c, nil
}

// popPred removes and returns the first available predicate constant,
// reporting dnerr.ExhaustedPool if none remain.
func (p *Pool) popPred() (string, error) {
	if p.Pred == "" {
		return "", dnerr.New(dnerr.ExhaustedPool, "no predicate constants left to allocate")
	}
	c := string(p.Pred[0])
	p.Pred = p.Pred[1:]
	return c, nil
}

// popWorld removes and returns the first available world digit,
// reporting dnerr.ExhaustedPool if none remain.
func (p *Pool) popWorld() (string, error) {
	if p.World == "" {
		return "", dnerr.New(dnerr.ExhaustedPool, "no world digits left to allocate")
	}
	c := string(p.World[0])
	p.World = p.World[1:]
	return c, nil
}
