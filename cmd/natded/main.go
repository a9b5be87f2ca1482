// Command natded derives a Fitch-style natural deduction proof for a
// list of premises and a goal, printing each line of the result
// colorized by which connective's rule justified it.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fitchkit/natded/internal/dnerr"
	"github.com/fitchkit/natded/internal/proofline"
	"github.com/fitchkit/natded/internal/search"
	"github.com/fitchkit/natded/pkg/engine"
)

var (
	file    string
	timeout time.Duration
	verbose bool
	raw     bool
	noColor bool
)

func main() {
	root := &cobra.Command{
		Use:   "natded [premise...] goal",
		Short: "Search for a Fitch-style natural deduction proof",
		Long: "natded takes a list of well-formed formulas — every argument but the\n" +
			"last is a premise, the last is the goal — and searches for a proof of\n" +
			"the goal from the premises, printing it as a numbered, depth-indented\n" +
			"Fitch proof.",
		Args: cobra.ArbitraryArgs,
		RunE: run,
	}

	flags := root.Flags()
	flags.StringVarP(&file, "file", "f", "", "read premises and goal from file, one formula per line, instead of positional args")
	flags.DurationVarP(&timeout, "timeout", "t", 10*time.Second, "maximum time to search before giving up")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every rule firing at debug level")
	flags.BoolVar(&raw, "raw", false, "print the unsimplified proof instead of the pruned one")
	flags.BoolVar(&noColor, "no-color", false, "disable colorized rule output")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		search.Log.SetLevel(logrus.DebugLevel)
	}
	color.NoColor = noColor

	wffs, err := readFormulas(args)
	if err != nil {
		return err
	}
	if len(wffs) == 0 {
		return fmt.Errorf("need a goal formula, got none")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := engine.Prove(ctx, wffs)
	if err != nil {
		if kind, ok := errKind(err); ok {
			return fmt.Errorf("%s: %w", kind, err)
		}
		return err
	}

	proof := result.Simplified
	if raw {
		proof = result.Proof
	}
	printProof(cmd.OutOrStdout(), proof)

	if !result.Proved {
		fmt.Fprintln(cmd.OutOrStdout(), "\n(goal not reached; showing the deepest partial proof found)")
	}
	return nil
}

// readFormulas prefers --file when set, one formula per non-blank,
// non-comment line, falling back to positional args.
func readFormulas(args []string) ([]string, error) {
	if file == "" {
		return args, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	var wffs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		wffs = append(wffs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return wffs, nil
}

func errKind(err error) (dnerr.Kind, bool) {
	for _, k := range []dnerr.Kind{dnerr.MalformedFormula, dnerr.ExhaustedPool, dnerr.NonRulableOperator} {
		if dnerr.Is(err, k) {
			return k, true
		}
	}
	return 0, false
}

// ruleColor picks a display color by the rule family a line's Rule
// belongs to: introductions (including the ones that close a subproof)
// in green, eliminations in cyan, premises, reiterations and assumption
// openings in yellow, and any other tag in white.
func ruleColor(rule string) *color.Color {
	switch {
	case rule == "P" || rule == "R":
		return color.New(color.FgYellow)
	case strings.HasSuffix(rule, "S") || strings.Contains(rule, "/"):
		return color.New(color.FgYellow)
	case strings.HasSuffix(rule, "I"):
		return color.New(color.FgGreen)
	case strings.HasSuffix(rule, "E"):
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}

func printProof(w io.Writer, proof []proofline.Line) {
	for _, ln := range proof {
		indent := strings.Repeat("  ", ln.Depth)
		justif := formatJustification(ln.Justification)
		rule := ruleColor(ln.Rule).Sprint(ln.Rule)
		fmt.Fprintf(w, "%2d. %s%s  [%s%s]\n", ln.Number, indent, ln.Formula.String(), rule, justif)
	}
}

func formatJustification(jst []int) string {
	if len(jst) == 0 {
		return ""
	}
	parts := make([]string, len(jst))
	for i, n := range jst {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return " " + strings.Join(parts, ",")
}
