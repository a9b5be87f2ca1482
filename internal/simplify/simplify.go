// Package simplify prunes a finished proof down to its essential
// lines: the transitive closure of justification dependencies starting
// from the last line, renumbered contiguously.
package simplify

import "github.com/fitchkit/natded/internal/proofline"

// Simplify computes the transitive closure of Justification starting
// from proof's last line, keeps exactly that set of lines (plus the
// last line itself) in their original order, and renumbers them 1..K,
// rewriting every Justification entry through the resulting old-to-new
// line-number mapping. Depth, Formula, and Rule are preserved verbatim.
func Simplify(proof []proofline.Line) []proofline.Line {
	if len(proof) == 0 {
		return proof
	}
	byNumber := make(map[int]proofline.Line, len(proof))
	for _, ln := range proof {
		byNumber[ln.Number] = ln
	}

	essential := map[int]bool{}
	var walk func(n int)
	walk = func(n int) {
		if essential[n] {
			return
		}
		essential[n] = true
		ln, ok := byNumber[n]
		if !ok {
			return
		}
		for _, j := range ln.Justification {
			walk(j)
		}
	}
	walk(proof[len(proof)-1].Number)

	var kept []proofline.Line
	for _, ln := range proof {
		if essential[ln.Number] {
			kept = append(kept, ln)
		}
	}

	renumber := make(map[int]int, len(kept))
	for i, ln := range kept {
		renumber[ln.Number] = i + 1
	}

	out := make([]proofline.Line, len(kept))
	for i, ln := range kept {
		jst := make([]int, len(ln.Justification))
		for j, old := range ln.Justification {
			jst[j] = renumber[old]
		}
		out[i] = proofline.Line{
			Number:         i + 1,
			Depth:          ln.Depth,
			Formula:        ln.Formula,
			Rule:           ln.Rule,
			Justification:  jst,
			GoalItemConsts: ln.GoalItemConsts,
			GoalPredConsts: ln.GoalPredConsts,
		}
	}
	return out
}
