package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
)

func TestReadFormulasPrefersFileOverArgs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proof.txt")
	content := "# a premise file\nA\n\nA→B\nB\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	file = path
	defer func() { file = "" }()

	got, err := readFormulas([]string{"ignored"})
	if err != nil {
		t.Fatalf("readFormulas: %v", err)
	}
	want := []string{"A", "A→B", "B"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadFormulasFallsBackToArgs(t *testing.T) {
	file = ""
	got, err := readFormulas([]string{"A", "B"})
	if err != nil {
		t.Fatalf("readFormulas: %v", err)
	}
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("got %v, want [A B]", got)
	}
}

func TestRuleColorByFamily(t *testing.T) {
	cases := map[string]*color.Color{
		"P":  color.New(color.FgYellow),
		"→S": color.New(color.FgYellow),
		"∧I": color.New(color.FgGreen),
		"∧E": color.New(color.FgCyan),
		"R":  color.New(color.FgYellow),
	}
	for rule, want := range cases {
		got := ruleColor(rule)
		if got.Sprint("x") != want.Sprint("x") {
			t.Errorf("ruleColor(%q) rendered %q, want %q", rule, got.Sprint("x"), want.Sprint("x"))
		}
	}
}

func TestFormatJustification(t *testing.T) {
	if got := formatJustification(nil); got != "" {
		t.Errorf("formatJustification(nil) = %q, want empty", got)
	}
	if got := formatJustification([]int{1, 2}); got != " 1,2" {
		t.Errorf("formatJustification([1 2]) = %q, want %q", got, " 1,2")
	}
}
