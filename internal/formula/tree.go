// Package formula implements the well-formed-formula syntax tree:
// parsing a surface string into a tree identified by its main operator,
// canonicalising away redundant parentheses, and structural equality by
// canonical string, per spec.md §3-4.1.
package formula

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/dnerr"
)

// Log is the package-level logger Parse reports rejected input through.
// Callers that don't care about malformed-input diagnostics can leave it
// at its default level (Info, so these Warn-level entries print) or
// silence it entirely.
var Log = logrus.New()

// Kind identifies which variant of the tagged formula tree a Formula is.
type Kind int

const (
	// KindVerum is the nullary constant ⊤.
	KindVerum Kind = iota
	// KindFalsum is the nullary constant ⊥.
	KindFalsum
	// KindPlaceholder is a single-character assumption marker such as
	// "[a]", "[A]", or "[3]", standing for a fresh item constant,
	// predicate constant, or world digit respectively.
	KindPlaceholder
	// KindPredicate is a 0-place sentence letter or an n-place
	// predicate applied to an argument tuple.
	KindPredicate
	// KindEquality is an identity statement between two term arguments.
	KindEquality
	// KindUnary is negation, necessity, or possibility.
	KindUnary
	// KindBinary is a conditional, conjunction, disjunction, or
	// biconditional.
	KindBinary
	// KindQuantifier is a universal or existential quantification.
	KindQuantifier
)

// Formula is an immutable node in a well-formed-formula syntax tree. Its
// canonical string form is computed once at construction and used for
// both rendering and structural equality, per spec.md's "Tagged
// variants vs. string-keyed trees" design note.
type Formula struct {
	kind     Kind
	op       string // connective/quantifier glyph, "=", or predicate head
	variable rune   // bound variable (quantifier) or placeholder constant
	left     *Formula
	right    *Formula
	args     []string // equality's two term args, or a predicate's n args
	canon    string
}

// Kind reports which tagged variant f is.
func (f *Formula) Kind() Kind { return f.kind }

// Op returns the main operator glyph: the connective or quantifier
// glyph, "=" for equality, or the predicate head character for
// KindPredicate. It is empty for verum, falsum, and placeholders.
func (f *Formula) Op() string { return f.op }

// Variable returns the bound variable character for a quantifier, or
// the constant character a placeholder stands for. It is the zero rune
// otherwise.
func (f *Formula) Variable() rune { return f.variable }

// Left returns the left child of a binary formula, nil otherwise.
func (f *Formula) Left() *Formula { return f.left }

// Right returns the operand of a unary or quantifier formula, or the
// right child of a binary formula; nil otherwise.
func (f *Formula) Right() *Formula { return f.right }

// Args returns a predicate's ordered argument tuple, or an equality's
// two term arguments (left then right). Each argument is either a
// single item-constant character or a «...»-quoted compound term. Nil
// for every other kind.
func (f *Formula) Args() []string { return f.args }

// String renders f in canonical form: outer parentheses stripped, and
// parenthetical groups retained only where operator precedence would
// otherwise make the formula ambiguous.
func (f *Formula) String() string { return f.canon }

// Equal reports structural equality, defined as equality of canonical
// strings (spec.md §3).
func (f *Formula) Equal(other *Formula) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.canon == other.canon
}

// HasOp reports whether f's main operator is op. Nil-safe.
func HasOp(f *Formula, op string) bool {
	return f != nil && f.op == op && f.kind != KindPredicate
}

// IsPlaceholder reports whether f is a "[x]" assumption marker.
func (f *Formula) IsPlaceholder() bool { return f.kind == KindPlaceholder }

// Parse converts a well-formed formula string, after surface-symbol
// conversion (see alphabet.Convert), into a Formula tree. It refuses
// unbalanced groupings, missing operands, unbound variables, and
// characters outside the defined alphabet with a dnerr.MalformedFormula
// error.
func Parse(wff string) (*Formula, error) {
	if wff == "" {
		return nil, dnerr.New(dnerr.MalformedFormula, "empty formula")
	}
	if err := validateChars(wff); err != nil {
		Log.WithField("wff", wff).Warn("rejected formula: character outside the defined alphabet")
		return nil, err
	}
	if err := validateBalance(wff); err != nil {
		Log.WithField("wff", wff).Warn("rejected formula: unbalanced grouping")
		return nil, err
	}
	if err := checkUnboundVariables(wff); err != nil {
		Log.WithField("wff", wff).Warn("rejected formula: unbound variable")
		return nil, err
	}
	tree, err := build(wff)
	if err != nil {
		Log.WithField("wff", wff).Warn("rejected formula: could not identify a main operator")
		return nil, err
	}
	Log.WithFields(logrus.Fields{"wff": wff, "canonical": tree.canon}).Debug("formula parsed")
	return tree, nil
}

// MustParse parses wff and panics on error. Intended for internal call
// sites that construct a formula from a syntactically-guaranteed-valid
// string, such as an instantiation result.
func MustParse(wff string) *Formula {
	f, err := Parse(wff)
	if err != nil {
		panic("formula: MustParse: " + err.Error())
	}
	return f
}

func validateChars(wff string) error {
	allowed := alphabet.LogicChars + alphabet.WorldDigits + "0_[]"
	for _, c := range wff {
		if !strings.ContainsRune(allowed, c) {
			return dnerr.New(dnerr.MalformedFormula, "illegal character %q in %q", string(c), wff)
		}
	}
	return nil
}

func validateBalance(wff string) error {
	parenDepth, quoteDepth := 0, 0
	for _, c := range wff {
		switch c {
		case '(':
			parenDepth++
		case ')':
			parenDepth--
		case '«':
			quoteDepth++
		case '»':
			quoteDepth--
		}
		if parenDepth < 0 || quoteDepth < 0 {
			return dnerr.New(dnerr.MalformedFormula, "unbalanced grouping in %q", wff)
		}
	}
	if parenDepth != 0 || quoteDepth != 0 {
		return dnerr.New(dnerr.MalformedFormula, "unbalanced grouping in %q", wff)
	}
	return nil
}

// checkUnboundVariables reports a variable character that never occurs
// immediately after a quantifier glyph anywhere in wff. This mirrors
// (without replicating the regex machinery of) the original is_wff
// ngram check: every variable must be introduced by some binder.
func checkUnboundVariables(wff string) error {
	rs := []rune(wff)
	for _, c := range rs {
		if !strings.ContainsRune(alphabet.Vars, c) {
			continue
		}
		if !boundSomewhere(rs, c) {
			return dnerr.New(dnerr.MalformedFormula, "unbound variable %q in %q", string(c), wff)
		}
	}
	return nil
}

func boundSomewhere(rs []rune, v rune) bool {
	for i := 0; i+1 < len(rs); i++ {
		if strings.ContainsRune(alphabet.Quants, rs[i]) && rs[i+1] == v {
			return true
		}
	}
	return false
}

// mainOpCandidate is one operator-glyph occurrence considered during
// main-operator selection: its rune position, its parenthetical/quote
// depth, and the glyph itself.
type mainOpCandidate struct {
	pos   int
	depth int
	op    string
}

// mainOpChars is every character mainOperator will consider a
// candidate: connectives, quantifiers, equality, predicate symbols
// (constant and variable), verum, and falsum.
const mainOpChars = alphabet.Unops + alphabet.Binops + alphabet.Quants + alphabet.Eq +
	alphabet.PredConsts + alphabet.PredVars + alphabet.Verum + alphabet.Falsum

// mainOperator finds wff's main operator: the candidate operator-glyph
// position with the least enclosing paren/quote depth, breaking ties by
// (i) binary connective wins, taking the leftmost tied candidate so
// unparenthesized binary chains associate to the right; (ii) otherwise
// the leftmost unary operator or quantifier; (iii) otherwise equality;
// (iv) otherwise the rightmost predicate/verum/falsum candidate.
func mainOperator(rs []rune) (pos, depth int, op string, err error) {
	var cands []mainOpCandidate
	bal := 0
	for i, c := range rs {
		if strings.ContainsRune(mainOpChars, c) {
			cands = append(cands, mainOpCandidate{i, bal, string(c)})
		}
		switch c {
		case '(', '«':
			bal++
		case ')', '»':
			bal--
		}
	}
	if len(cands) == 0 {
		return 0, 0, "", dnerr.New(dnerr.MalformedFormula, "no operator found in %q", string(rs))
	}

	minDepth := cands[0].depth
	for _, c := range cands {
		if c.depth < minDepth {
			minDepth = c.depth
		}
	}
	var atMin []mainOpCandidate
	for _, c := range cands {
		if c.depth == minDepth {
			atMin = append(atMin, c)
		}
	}
	if len(atMin) == 1 {
		c := atMin[0]
		return c.pos, c.depth, c.op, nil
	}

	for _, c := range atMin {
		if strings.ContainsRune(alphabet.Binops, []rune(c.op)[0]) {
			return c.pos, c.depth, c.op, nil
		}
	}

	unqu := alphabet.Unops + alphabet.Quants
	var uq []mainOpCandidate
	for _, c := range atMin {
		if strings.ContainsRune(unqu, []rune(c.op)[0]) {
			uq = append(uq, c)
		}
	}
	if len(uq) > 0 {
		minPos := uq[0].pos
		for _, c := range uq {
			if c.pos < minPos {
				minPos = c.pos
			}
		}
		var atMinPos []mainOpCandidate
		for _, c := range uq {
			if c.pos == minPos {
				atMinPos = append(atMinPos, c)
			}
		}
		c := atMinPos[len(atMinPos)-1]
		return c.pos, c.depth, c.op, nil
	}

	if c, ok := lastMatching(atMin, alphabet.Eq); ok {
		return c.pos, c.depth, c.op, nil
	}

	ptf := alphabet.PredConsts + alphabet.PredVars + alphabet.Verum + alphabet.Falsum
	if c, ok := lastMatching(atMin, ptf); ok {
		return c.pos, c.depth, c.op, nil
	}

	return 0, 0, "", dnerr.New(dnerr.MalformedFormula, "no main operator found in %q", string(rs))
}

func lastMatching(cands []mainOpCandidate, set string) (mainOpCandidate, bool) {
	var out mainOpCandidate
	found := false
	for _, c := range cands {
		if strings.ContainsRune(set, []rune(c.op)[0]) {
			out = c
			found = true
		}
	}
	return out, found
}

// stripOuterParens peels a matching outer parenthesis pair as long as
// the running paren balance never returns to zero before the final
// character, per spec.md §4.1's canonicalisation rule.
func stripOuterParens(rs []rune) []rune {
	for len(rs) >= 2 {
		bal := 0
		balances := make([]int, len(rs))
		for i, c := range rs {
			if c == '(' {
				bal++
			} else if c == ')' {
				bal--
			}
			balances[i] = bal
		}
		zeroBeforeLast := false
		for i := 0; i < len(balances)-1; i++ {
			if balances[i] == 0 {
				zeroBeforeLast = true
				break
			}
		}
		if zeroBeforeLast || balances[0] == 0 {
			break
		}
		rs = rs[1 : len(rs)-1]
	}
	return rs
}

// clean renders wff in canonical form relative to the enclosing
// operator pmop (used to decide whether a binary subexpression needs
// wrapping parentheses). pmop is "" for a top-level call.
func clean(wff string, pmop string) string {
	rs := stripOuterParens([]rune(wff))
	if len(rs) == 0 {
		return ""
	}
	if len(rs) == 3 && rs[0] == '[' && rs[2] == ']' {
		return string(rs)
	}
	pos, _, mop, err := mainOperator(rs)
	if err != nil {
		return string(rs)
	}
	if mop == alphabet.Verum || mop == alphabet.Falsum {
		return string(rs)
	}
	mopRune := []rune(mop)[0]

	if strings.ContainsRune(alphabet.Binops, mopRune) {
		left := clean(string(rs[:pos]), mop)
		right := clean(string(rs[pos+1:]), mop)
		out := left + mop + right
		if pmop != "" && strings.ContainsRune(alphabet.Binops+alphabet.Unops+alphabet.Quants, []rune(pmop)[0]) {
			return "(" + out + ")"
		}
		return out
	}

	if strings.ContainsRune(alphabet.Unops, mopRune) {
		return mop + clean(string(rs[pos+1:]), mop)
	}

	if strings.ContainsRune(alphabet.Quants, mopRune) {
		if pos+1 >= len(rs) {
			return string(rs)
		}
		v := rs[pos+1]
		body := ""
		if pos+2 <= len(rs) {
			body = clean(string(rs[pos+2:]), mop)
		}
		return mop + string(v) + body
	}

	if mop == alphabet.Eq {
		return cleanEquality(string(rs), pos, mop)
	}

	return cleanPredicateQuotes(string(rs))
}

func cleanEquality(s string, pos int, pmop string) string {
	rs := []rune(s)
	if strings.HasPrefix(s, alphabet.LQuote) && pos-1 >= 1 {
		inner := string(rs[1 : pos-1])
		s = strings.Replace(s, inner, clean(inner, pmop), 1)
	}
	rs = []rune(s)
	eqIdx := indexRune(rs, []rune(alphabet.Eq)[0])
	if strings.HasSuffix(s, alphabet.RQuote) && eqIdx >= 0 && eqIdx+1 < len(rs) {
		inner := string(rs[eqIdx+1 : len(rs)-1])
		s = s[:eqIdx+1] + clean(inner, pmop) + alphabet.RQuote
	}
	return s
}

func indexRune(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}

// cleanPredicateQuotes recursively cleans every top-level «...»-quoted
// compound-term argument in a predicate's rendering, leaving ordinary
// single-character arguments untouched. This loops over every quoted
// span rather than stopping at the first one, departing from the
// grounded Python (wfftree.py's clean, predicate branch), which only
// locates and cleans a single wff.find(LQ) match per call: a predicate
// applied to more than one compound-term argument needs every one of
// them cleaned, not just the first.
func cleanPredicateQuotes(s string) string {
	rs := []rune(s)
	var b strings.Builder
	i := 0
	for i < len(rs) {
		if rs[i] == []rune(alphabet.LQuote)[0] {
			depth := 1
			j := i + 1
			for j < len(rs) && depth > 0 {
				switch rs[j] {
				case []rune(alphabet.LQuote)[0]:
					depth++
				case []rune(alphabet.RQuote)[0]:
					depth--
				}
				j++
			}
			inner := string(rs[i+1 : j-1])
			b.WriteString(alphabet.LQuote)
			b.WriteString(clean(inner, "?"))
			b.WriteString(alphabet.RQuote)
			i = j
			continue
		}
		b.WriteRune(rs[i])
		i++
	}
	return b.String()
}

// build assumes wff has already passed validation and constructs the
// Formula tree from its canonical form.
func build(wff string) (*Formula, error) {
	rs := []rune(clean(wff, ""))
	if len(rs) == 3 && rs[0] == '[' && rs[2] == ']' {
		return &Formula{kind: KindPlaceholder, variable: rs[1], canon: string(rs)}, nil
	}
	if len(rs) == 0 {
		return nil, dnerr.New(dnerr.MalformedFormula, "empty formula after cleaning %q", wff)
	}

	pos, _, mop, err := mainOperator(rs)
	if err != nil {
		return nil, err
	}

	if len(rs) == 1 {
		switch string(rs) {
		case alphabet.Verum:
			return &Formula{kind: KindVerum, canon: string(rs)}, nil
		case alphabet.Falsum:
			return &Formula{kind: KindFalsum, canon: string(rs)}, nil
		default:
			return &Formula{kind: KindPredicate, op: string(rs), canon: string(rs)}, nil
		}
	}

	mopRune := []rune(mop)[0]

	switch {
	case strings.ContainsRune(alphabet.Binops, mopRune):
		left, err := build(clean(string(rs[:pos]), mop))
		if err != nil {
			return nil, err
		}
		right, err := build(clean(string(rs[pos+1:]), mop))
		if err != nil {
			return nil, err
		}
		return &Formula{kind: KindBinary, op: mop, left: left, right: right, canon: string(rs)}, nil

	case strings.ContainsRune(alphabet.Unops, mopRune):
		if pos+1 >= len(rs) {
			return nil, dnerr.New(dnerr.MalformedFormula, "operator %q missing operand in %q", mop, string(rs))
		}
		right, err := build(clean(string(rs[pos+1:]), mop))
		if err != nil {
			return nil, err
		}
		return &Formula{kind: KindUnary, op: mop, right: right, canon: string(rs)}, nil

	case strings.ContainsRune(alphabet.Quants, mopRune):
		if pos+1 >= len(rs) {
			return nil, dnerr.New(dnerr.MalformedFormula, "quantifier %q missing bound variable in %q", mop, string(rs))
		}
		v := rs[pos+1]
		if pos+2 >= len(rs) {
			return nil, dnerr.New(dnerr.MalformedFormula, "quantifier %q missing scope in %q", mop, string(rs))
		}
		right, err := build(clean(string(rs[pos+2:]), mop))
		if err != nil {
			return nil, err
		}
		return &Formula{kind: KindQuantifier, op: mop, variable: v, right: right, canon: string(rs)}, nil

	case mop == alphabet.Eq:
		if pos == 0 || pos+1 >= len(rs) {
			return nil, dnerr.New(dnerr.MalformedFormula, "equality missing operand in %q", string(rs))
		}
		left, right := string(rs[:pos]), string(rs[pos+1:])
		return &Formula{kind: KindEquality, op: alphabet.Eq, args: []string{left, right}, canon: string(rs)}, nil

	default:
		args, err := parsePredicateArgs(rs)
		if err != nil {
			return nil, err
		}
		return &Formula{kind: KindPredicate, op: string(rs[0]), args: args, canon: string(rs)}, nil
	}
}

// parsePredicateArgs splits the characters following a predicate head
// into individual arguments: single characters, or whole «...»-quoted
// compound-term spans.
func parsePredicateArgs(rs []rune) ([]string, error) {
	tail := rs[1:]
	var args []string
	i := 0
	lq, rq := []rune(alphabet.LQuote)[0], []rune(alphabet.RQuote)[0]
	for i < len(tail) {
		if tail[i] == lq {
			depth := 1
			j := i + 1
			for j < len(tail) && depth > 0 {
				switch tail[j] {
				case lq:
					depth++
				case rq:
					depth--
				}
				j++
			}
			if depth != 0 {
				return nil, dnerr.New(dnerr.MalformedFormula, "unbalanced quote in %q", string(rs))
			}
			args = append(args, string(tail[i:j]))
			i = j
			continue
		}
		args = append(args, string(tail[i]))
		i++
	}
	return args, nil
}
