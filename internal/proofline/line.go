// Package proofline defines the Fitch proof line: a numbered, depth-
// tagged derivation step with its justification, and the bookkeeping
// that finds which earlier lines are still valid premises and which
// assumption block is the innermost currently open one.
package proofline

import (
	"sort"
	"strings"

	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/formula"
)

// Line is one step of a proof.
type Line struct {
	Number  int
	Depth   int
	Formula *formula.Formula
	Rule    string
	// Justification holds the line numbers of the premises that license
	// Rule's use in deriving Formula.
	Justification []int
	// GoalItemConsts and GoalPredConsts carry forward, unchanged from
	// the proof's first line, the item- and predicate-constant
	// characters present in the original top-level goal formula.
	// Universal elimination reads them off the premise it instantiates
	// and adds them to the constants it tries, rather than recomputing
	// them.
	GoalItemConsts string
	GoalPredConsts string
}

// dischargeRules are the rules that close a subproof, each reducing the
// new line's depth by one relative to the proof's last line.
var dischargeRules = map[string]bool{
	alphabet.Then + "I": true,
	alphabet.Not + "I":  true,
	alphabet.All + "I":  true,
	alphabet.Some + "E": true,
	alphabet.Nec + "I":  true,
	alphabet.Poss + "E": true,
}

// isOpeningRule reports whether rule opens a new assumption subproof:
// its name ends in "S" (a bare assumption) or contains "/" (an
// assumption paired with a chosen instantiation constant, as in
// "∃S/a").
func isOpeningRule(rule string) bool {
	return strings.HasSuffix(rule, "S") || strings.Contains(rule, "/")
}

// Bootstrap builds the sentinel "line zero" a proof starts from before
// it has any lines of its own: depth 0, no rule or justification, and
// goal constants read directly off the top-level goal formula. add_sm's
// synthetic first premise and ver_intro/eq_intro's zero-premise
// constructions both need exactly this.
func Bootstrap(goalFormula *formula.Formula) Line {
	s := goalFormula.String()
	return Line{
		Number:         0,
		Depth:          0,
		Formula:        formula.MustParse(alphabet.Verum),
		GoalItemConsts: keep(s, alphabet.ItemConsts),
		GoalPredConsts: keep(s, alphabet.PredConsts),
	}
}

func keep(s, set string) string {
	var b strings.Builder
	for _, c := range s {
		if strings.ContainsRune(set, c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// MakeLine builds the next line appended to proof: its depth is the
// proof's current (last line's) depth, adjusted up by one if rule opens
// a subproof and down by one if it discharges one. Goal constants carry
// forward unchanged from the proof's last line.
func MakeLine(proof []Line, tree *formula.Formula, rule string, jst []Line) Line {
	last := proof[len(proof)-1]
	depth := last.Depth
	if isOpeningRule(rule) {
		depth++
	}
	if dischargeRules[rule] {
		depth--
	}
	jstlns := make([]int, len(jst))
	for i, p := range jst {
		jstlns[i] = p.Number
	}
	return Line{
		Number:         last.Number + 1,
		Depth:          depth,
		Formula:        tree,
		Rule:           rule,
		Justification:  jstlns,
		GoalItemConsts: last.GoalItemConsts,
		GoalPredConsts: last.GoalPredConsts,
	}
}

// SortLines sorts lines by line number.
func SortLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// ValidPremises filters lines down to those still usable as a premise
// from the point of view of the last line: working backward from the
// end, a line survives only if its depth never exceeds the depth of
// every line that follows it up to the point being checked. This is a
// recursive filter rather than a single backward scan so that a line
// whose depth spikes and later drops back down is correctly excluded
// once, not selectively re-admitted.
func ValidPremises(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	baseDepth := lines[len(lines)-1].Depth
	var kept []Line
	for _, ln := range lines[:len(lines)-1] {
		if ln.Depth <= baseDepth {
			kept = append(kept, ln)
		}
	}
	return append(ValidPremises(kept), lines[len(lines)-1])
}

// DeepestOpenBlock finds the innermost still-open assumption block among
// prems: scanning backward from the end, the first line whose rule
// opens a subproof (see isOpeningRule) and everything after it. Returns
// nil if the last premise sits at depth 0 (no subproof is open) or no
// opening line is found.
func DeepestOpenBlock(prems []Line) []Line {
	if len(prems) == 0 {
		return nil
	}
	if prems[len(prems)-1].Depth == 0 {
		return nil
	}
	for i := len(prems) - 1; i >= 0; i-- {
		if isOpeningRule(prems[i].Rule) {
			return prems[i:]
		}
	}
	return nil
}
