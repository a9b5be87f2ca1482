package goal

import (
	"sort"
	"strings"

	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/formula"
)

// Goal is one node of a planned decomposition: the formula to derive,
// the constant pool available when it was planned, its ID (encoding
// its position in the decomposition so goals sort depth-first), and
// the assumption depth the line introducing it must sit at.
type Goal struct {
	Tree  *formula.Formula
	Arbs  *Pool
	ID    string
	Depth int
}

// Plan decomposes tree into its full ordered list of subgoals, given the
// constant pool available to it, its own ID (empty for a top-level
// call), and its assumption depth. It is a direct, intentional, shared-
// mutable-pool port of the original goal_list: each recursive call
// draws from (and permanently depletes) the same Pool, so a constant
// popped for one branch's assumption is unavailable to every sibling
// and descendant branch that follows. A quantifier or necessity branch
// that needs a fresh constant the pool has none of returns
// dnerr.ExhaustedPool, per spec.md's "search aborts" handling of pool
// exhaustion: the caller sees an error, not a panic.
func Plan(tree *formula.Formula, arbs *Pool, gid string, depth int) ([]*Goal, error) {
	root := func() []*Goal {
		if gid == "" {
			return []*Goal{{Tree: tree, Arbs: arbs, ID: gid, Depth: depth}}
		}
		return nil
	}

	switch tree.Kind() {
	case formula.KindBinary:
		switch tree.Op() {
		case alphabet.And:
			gA := &Goal{Tree: tree.Left(), Arbs: arbs, ID: gid + "A", Depth: depth}
			gB := &Goal{Tree: tree.Right(), Arbs: arbs, ID: gid + "B", Depth: depth}
			out := append(root(), gA, gB)
			subA, err := Plan(gA.Tree, gA.Arbs, gA.ID, gA.Depth)
			if err != nil {
				return nil, err
			}
			subB, err := Plan(gB.Tree, gB.Arbs, gB.ID, gB.Depth)
			if err != nil {
				return nil, err
			}
			out = append(out, subA...)
			out = append(out, subB...)
			return out, nil

		case alphabet.Or:
			gA := &Goal{Tree: tree.Left(), Arbs: arbs, ID: gid + "A", Depth: depth}
			gB := &Goal{Tree: tree.Right(), Arbs: arbs, ID: gid + "B", Depth: depth}
			out := append(root(), gA, gB)
			subA, err := Plan(gA.Tree, gA.Arbs, gA.ID, gA.Depth)
			if err != nil {
				return nil, err
			}
			subB, err := Plan(gB.Tree, gB.Arbs, gB.ID, gB.Depth)
			if err != nil {
				return nil, err
			}
			out = append(out, subA...)
			out = append(out, subB...)
			return out, nil

		case alphabet.Then:
			gA := &Goal{Tree: tree.Left(), Arbs: arbs, ID: gid + alphabet.Then + "S", Depth: depth}
			gB := &Goal{Tree: tree.Right(), Arbs: arbs, ID: gid + alphabet.Then + "SA", Depth: depth + 1}
			out := append(root(), gA, gB)
			sub, err := Plan(gB.Tree, gB.Arbs, gB.ID, gB.Depth)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			return out, nil

		case alphabet.Iff:
			fwd := formula.MustParse("(" + tree.Left().String() + ")" + alphabet.Then + "(" + tree.Right().String() + ")")
			rev := formula.MustParse("(" + tree.Right().String() + ")" + alphabet.Then + "(" + tree.Left().String() + ")")
			gA := &Goal{Tree: fwd, Arbs: arbs, ID: gid + "A", Depth: depth}
			gB := &Goal{Tree: rev, Arbs: arbs, ID: gid + "B", Depth: depth}
			out := append(root(), gA, gB)
			subA, err := Plan(gA.Tree, gA.Arbs, gA.ID, gA.Depth)
			if err != nil {
				return nil, err
			}
			subB, err := Plan(gB.Tree, gB.Arbs, gB.ID, gB.Depth)
			if err != nil {
				return nil, err
			}
			out = append(out, subA...)
			out = append(out, subB...)
			return out, nil
		}

	case formula.KindUnary:
		switch tree.Op() {
		case alphabet.Not:
			falsum := formula.MustParse(alphabet.Falsum)
			gA := &Goal{Tree: tree.Right(), Arbs: arbs, ID: gid + alphabet.Not + "S", Depth: depth}
			gB := &Goal{Tree: falsum, Arbs: arbs, ID: gid + alphabet.Not + "SA", Depth: depth + 1}
			out := append(root(), gA, gB)
			sub, err := Plan(gB.Tree, gB.Arbs, gB.ID, gB.Depth)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			return out, nil

		case alphabet.Nec:
			newArb, err := arbs.popWorld()
			if err != nil {
				return nil, err
			}
			placeholder := formula.MustParse("[" + newArb + "]")
			body := formula.Instantiate(tree, newArb)
			gA := &Goal{Tree: placeholder, Arbs: arbs, ID: gid + alphabet.Nec + "S", Depth: depth}
			gB := &Goal{Tree: body, Arbs: arbs, ID: gid + alphabet.Nec + "SA", Depth: depth + 1}
			out := append(root(), gA, gB)
			sub, err := Plan(gB.Tree, gB.Arbs, gB.ID, gB.Depth)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			return out, nil

		case alphabet.Poss:
			var gsA []*Goal
			for _, c := range worldTags {
				gsA = append(gsA, &Goal{
					Tree:  formula.Instantiate(tree, string(c)),
					Arbs:  arbs,
					ID:    gid + "*" + string(c) + "*",
					Depth: depth,
				})
			}
			out := append(root(), gsA...)
			for _, g := range gsA {
				sub, err := Plan(g.Tree, g.Arbs, g.ID, g.Depth)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			}
			return out, nil
		}

	case formula.KindQuantifier:
		switch tree.Op() {
		case alphabet.All:
			var newArb string
			var err error
			if strings.ContainsRune(alphabet.ItemVars, tree.Variable()) {
				newArb, err = arbs.popItem()
			} else {
				newArb, err = arbs.popPred()
			}
			if err != nil {
				return nil, err
			}
			placeholder := formula.MustParse("[" + newArb + "]")
			body := formula.Instantiate(tree, newArb)
			gA := &Goal{Tree: placeholder, Arbs: arbs, ID: gid + alphabet.All + "S", Depth: depth}
			gB := &Goal{Tree: body, Arbs: arbs, ID: gid + alphabet.All + "SA", Depth: depth + 1}
			out := append(root(), gA, gB)
			sub, err := Plan(gB.Tree, gB.Arbs, gB.ID, gB.Depth)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			return out, nil

		case alphabet.Some:
			consts := alphabet.ItemConsts
			if !strings.ContainsRune(alphabet.ItemVars, tree.Variable()) {
				consts = alphabet.PredConsts
			}
			var gsA []*Goal
			for _, c := range consts {
				gsA = append(gsA, &Goal{
					Tree:  formula.Instantiate(tree, string(c)),
					Arbs:  arbs,
					ID:    gid + "*" + string(c) + "*",
					Depth: depth,
				})
			}
			out := append(root(), gsA...)
			for _, g := range gsA {
				sub, err := Plan(g.Tree, g.Arbs, g.ID, g.Depth)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			}
			return out, nil
		}

	case formula.KindEquality:
		left, right := tree.Args()[0], tree.Args()[1]
		gA := &Goal{Tree: formula.MustParse(left + alphabet.Eq + left), Arbs: arbs, ID: gid, Depth: depth}
		gB := &Goal{Tree: formula.MustParse(right + alphabet.Eq + right), Arbs: arbs, ID: gid, Depth: depth}
		return []*Goal{gA, gB}, nil
	}

	// Fallback: atomic sentence letters, predicate applications, verum,
	// and falsum all get an indirect-proof goal shaped exactly like ¬'s
	// own introduction pattern, since none of them have an introduction
	// rule of their own to plan around directly.
	negated := formula.MustParse(alphabet.Not + "(" + tree.String() + ")")
	falsum := formula.MustParse(alphabet.Falsum)
	gA := &Goal{Tree: negated, Arbs: arbs, ID: gid + alphabet.Not + "S", Depth: depth}
	gB := &Goal{Tree: falsum, Arbs: arbs, ID: gid + alphabet.Not + "SA", Depth: depth + 1}
	return append(root(), gA, gB), nil
}

// SortGoals sorts goals by ID, matching the Unicode-codepoint ordering
// that determines a deterministic, depth-first decomposition order.
func SortGoals(goals []*Goal) []*Goal {
	out := make([]*Goal, len(goals))
	copy(out, goals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ExtGoals extends an existing goal list with newGoal and its own
// planned subgoals, re-sorted.
func ExtGoals(goals []*Goal, newGoal *Goal) ([]*Goal, error) {
	ext, err := Plan(newGoal.Tree, newGoal.Arbs, newGoal.ID, newGoal.Depth)
	if err != nil {
		return nil, err
	}
	out := append(append([]*Goal{}, goals...), newGoal)
	out = append(out, ext...)
	return SortGoals(out), nil
}

// PopGoals removes every goal whose ID starts with gid: once a subproof
// discharges, every goal planned underneath it is no longer relevant.
func PopGoals(goals []*Goal, gid string) []*Goal {
	var out []*Goal
	for _, g := range goals {
		if !strings.HasPrefix(g.ID, gid) {
			out = append(out, g)
		}
	}
	return out
}
