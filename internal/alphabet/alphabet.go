// Package alphabet defines the fixed character sets and operator glyphs
// that make up the logic's surface syntax, along with the ASCII-digraph
// conversion table that maps typeable input onto those glyphs.
package alphabet

import "strings"

// Rulable is an operator glyph that the rule library can fire on: every
// binary and unary connective, both quantifiers, and equality.
type Rulable = string

// Operator glyphs.
const (
	Not   = "¬"
	Then  = "→"
	And   = "∧"
	Or    = "∨"
	Iff   = "↔"
	Verum = "⊤"
	Falsum = "⊥"
	All   = "∀"
	Some  = "∃"
	Nec   = "◻"
	Poss  = "◇"
	Eq    = "="

	LParen = "("
	RParen = ")"
	LQuote = "«"
	RQuote = "»"
)

// Character classes. Item constants are a..t, predicate constants A..T,
// item variables u..z, predicate variables U..Z, world digits 1..9.
const (
	ItemConsts = "abcdefghijklmnopqrst"
	PredConsts = "ABCDEFGHIJKLMNOPQRST"
	ItemVars   = "uvwxyz"
	PredVars   = "UVWXYZ"
	WorldDigits = "123456789"
)

// Items is every item-level character: constants and variables.
const Items = ItemConsts + ItemVars

// Preds is every predicate-level character: constants and variables.
const Preds = PredConsts + PredVars

// Unops is the set of unary operator glyphs.
const Unops = Not + Nec + Poss

// Binops is the set of binary connective glyphs.
const Binops = Then + And + Or + Iff

// Quants is the set of quantifier glyphs.
const Quants = All + Some

// Ops is every connective glyph, unary and binary.
const Ops = Unops + Binops

// Vars is every variable character, item- and predicate-level.
const Vars = ItemVars + PredVars

// Consts is every constant character, item- and predicate-level.
const Consts = ItemConsts + PredConsts

// LogicChars is the full alphabet a well-formed formula may use.
const LogicChars = Verum + Falsum + PredConsts + ItemConsts + Eq + Unops + Binops +
	Quants + PredVars + ItemVars + LParen + RParen + LQuote + RQuote

// RulableOps lists the operators the rule library recognizes, in the
// order get_rulable scans them.
var RulableOps = []string{And, Or, Then, Iff, Not, All, Some, Nec, Poss, Eq}

// symConv is the closed, order-independent surface-symbol conversion
// table: ASCII digraphs to canonical glyphs. Longer keys are listed
// first so a substitution pass that tries them in order never lets a
// short key like "<" swallow part of a longer one like "<->".
var symConv = []struct{ from, to string }{
	{"<->", Iff},
	{"<=>", Iff},
	{"->", Then},
	{"=>", Then},
	{"/\\", And},
	{"\\/", Or},
	{"[]", Nec},
	{"<>", Poss},
	{"#T", Verum},
	{"#F", Falsum},
	{`"l`, LQuote},
	{`"r`, RQuote},
	{"~", Not},
	{"!", Not},
	{"&", And},
	{"^", And},
	{"|", Or},
	{"@", All},
	{"3", Some},
}

// Convert runs the surface-symbol conversion once, left to right,
// rewriting every ASCII digraph in s to its canonical glyph before
// parsing. Longer keys are tried before shorter ones so "<->" is never
// captured by "<" (which isn't even a key) or "-" partial matches.
func Convert(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		matched := false
		for _, rule := range symConv {
			if strings.HasPrefix(s[i:], rule.from) {
				b.WriteString(rule.to)
				i += len(rule.from)
				matched = true
				break
			}
		}
		if !matched {
			r := s[i]
			b.WriteByte(r)
			i++
		}
	}
	return b.String()
}

// IsRulable reports whether prim is one of the operators the rule
// library fires on.
func IsRulable(prim string) bool {
	for _, r := range RulableOps {
		if prim == r {
			return true
		}
	}
	return false
}
