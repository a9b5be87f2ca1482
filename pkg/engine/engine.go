// Package engine is the public facade over proof planning, search, and
// simplification: the three calls a caller actually needs (InitProof,
// Derive, Simplify) plus Prove, a context-aware convenience wrapper
// that bundles all three into one round trip and a mappable timeout.
package engine

import (
	"context"

	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/dnerr"
	"github.com/fitchkit/natded/internal/formula"
	"github.com/fitchkit/natded/internal/goal"
	"github.com/fitchkit/natded/internal/proofline"
	"github.com/fitchkit/natded/internal/search"
	"github.com/fitchkit/natded/internal/simplify"
)

// Result is what Prove hands back: the raw derivation, its simplified
// form, and whether the last wff in the input was actually reached at
// depth 0 (a failed search is not an error — it is a Result with
// Proved false and whatever partial proof the driver produced).
type Result struct {
	Proof      []proofline.Line
	Simplified []proofline.Line
	Proved     bool
}

// InitProof parses wffs in order — every entry but the last becomes a
// numbered premise line at depth 0, and the last becomes the top-level
// goal that Plan decomposes against a fresh constant pool drawn from
// every formula's own vocabulary. An empty wffs returns no goals, no
// proof, and no error, matching a call with nothing to prove.
func InitProof(wffs []string) ([]*goal.Goal, []proofline.Line, error) {
	if len(wffs) == 0 {
		return nil, nil, nil
	}

	trees := make([]*formula.Formula, 0, len(wffs))
	for _, w := range wffs {
		tree, err := formula.Parse(alphabet.Convert(w))
		if err != nil {
			return nil, nil, dnerr.Wrap(err, dnerr.MalformedFormula, "parsing %q", w)
		}
		trees = append(trees, tree)
	}

	goalTree := trees[len(trees)-1]
	base := proofline.Bootstrap(goalTree)

	proof := make([]proofline.Line, 0, len(trees)-1)
	for i, tree := range trees[:len(trees)-1] {
		proof = append(proof, proofline.Line{
			Number:         i + 1,
			Depth:          0,
			Formula:        tree,
			Rule:           "P",
			GoalItemConsts: base.GoalItemConsts,
			GoalPredConsts: base.GoalPredConsts,
		})
	}

	arbs := goal.FindArbs(trees...)
	planned, err := goal.Plan(goalTree, arbs, "", 0)
	if err != nil {
		return nil, nil, err
	}
	goals := goal.SortGoals(planned)
	return goals, proof, nil
}

// Derive runs the search driver to a fixed point.
func Derive(goals []*goal.Goal, proof []proofline.Line) []proofline.Line {
	return search.Derive(goals, proof)
}

// Simplify prunes a finished proof down to its essential lines.
func Simplify(proof []proofline.Line) []proofline.Line {
	return simplify.Simplify(proof)
}

// proved reports whether the goal formula — the last of the original
// wffs — appears in proof at depth 0, which is what "this list of wffs
// is a valid derivation" actually means once the driver has stopped.
func proved(goalTree *formula.Formula, proof []proofline.Line) bool {
	for _, ln := range proof {
		if ln.Depth == 0 && ln.Formula.Equal(goalTree) {
			return true
		}
	}
	return false
}

// Prove runs InitProof, Derive, and Simplify in one call, racing the
// driver against ctx so a caller can bound how long Prove waits without
// the driver itself needing to know about contexts or deadlines: the
// core stays single-threaded and pure, and cancellation lives here at
// the package boundary. On ctx expiring before the driver settles, Prove
// returns the premise lines built by InitProof (not the driver's partial
// progress) with Proved false and ctx's error; the driver goroutine is
// not stopped and runs on until it settles.
func Prove(ctx context.Context, wffs []string) (Result, error) {
	goals, proof, err := InitProof(wffs)
	if err != nil {
		return Result{}, err
	}
	if len(wffs) == 0 {
		return Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{Proof: proof, Simplified: proof, Proved: false}, err
	}

	type outcome struct {
		proof []proofline.Line
	}
	done := make(chan outcome, 1)
	go func() {
		done <- outcome{proof: Derive(goals, proof)}
	}()

	select {
	case o := <-done:
		goalTree, _ := formula.Parse(alphabet.Convert(wffs[len(wffs)-1]))
		simplified := Simplify(o.proof)
		return Result{
			Proof:      o.proof,
			Simplified: simplified,
			Proved:     proved(goalTree, o.proof),
		}, nil
	case <-ctx.Done():
		return Result{Proof: proof, Simplified: proof, Proved: false}, ctx.Err()
	}
}
