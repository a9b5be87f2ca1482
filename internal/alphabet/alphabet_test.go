package alphabet

import "testing"

func TestConvert(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"negation tilde", "~A", Not + "A"},
		{"negation bang", "!A", Not + "A"},
		{"iff before then", "A<->B", "A" + Iff + "B"},
		{"iff double arrow", "A<=>B", "A" + Iff + "B"},
		{"then arrow", "A->B", "A" + Then + "B"},
		{"then double arrow", "A=>B", "A" + Then + "B"},
		{"and ampersand", "A&B", "A" + And + "B"},
		{"and slash", `A/\B`, "A" + And + "B"},
		{"and caret", "A^B", "A" + And + "B"},
		{"or pipe", "A|B", "A" + Or + "B"},
		{"or slash", `A\/B`, "A" + Or + "B"},
		{"verum", "#T", Verum},
		{"falsum", "#F", Falsum},
		{"all", "@xA«x»", All + "xA" + LQuote + "x" + RQuote},
		{"some", "3xA«x»", Some + "xA" + LQuote + "x" + RQuote},
		{"nec", "[]A", Nec + "A"},
		{"poss", "<>A", Poss + "A"},
		{"quote pair", `"lA"r`, LQuote + "A" + RQuote},
		{"longer key wins over prefix", "A<->B->C", "A" + Iff + "B" + Then + "C"},
		{"no conversion needed", "A", "A"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Convert(c.in); got != c.want {
				t.Errorf("Convert(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestIsRulable(t *testing.T) {
	for _, op := range RulableOps {
		if !IsRulable(op) {
			t.Errorf("IsRulable(%q) = false, want true", op)
		}
	}
	if IsRulable(Verum) {
		t.Error("IsRulable(Verum) = true, want false (verum is not in RulableOps)")
	}
	if IsRulable("q") {
		t.Error("IsRulable(\"q\") = true, want false")
	}
}
