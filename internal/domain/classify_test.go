package domain

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		merchant string
		want     string
	}{
		{"kfc sunway", "Eating Out"},
		{"grab ride kl", "Transport"},
		{"99 speedmart ss15", "Groceries"},
		{"shopee mall", "Shopping"},
		{"gsc mid valley", "Entertainment"},
		{"tnb electricity bill", "Bills"},
		{"random unknown shop", "Shopping"}, // fallback
		{"", "Shopping"},
	}
	for _, c := range cases {
		if got := Classify(c.merchant); got != c.want {
			t.Fatalf("Classify(%q): want %s, got %s", c.merchant, c.want, got)
		}
	}
}

func TestClassify_DeclarationOrderWins(t *testing.T) {
	// "grab cafe" matches both Transport and Eating Out keywords;
	// Transport is declared first so it must win.
	if got := Classify("grab cafe"); got != "Transport" {
		t.Fatalf("want Transport, got %s", got)
	}
}

func TestStepRoundTrip(t *testing.T) {
	for _, s := range []Step{StepPersona, StepIncome, StepBudgetConfirm, StepComplete} {
		if got := ParseStep(s.String()); got != s {
			t.Fatalf("step %v: round-trip gave %v", s, got)
		}
	}
	if got := ParseStep("garbage"); got != StepPersona {
		t.Fatalf("unknown step should fall back to persona, got %v", got)
	}
}
