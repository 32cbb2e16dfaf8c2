package extract

import "testing"

func TestDecodeReceipt(t *testing.T) {
	cases := []struct {
		name, raw    string
		amount       string
		merchant     string
		expectError  bool
	}{
		{"plain", `{"amount": 23.50, "merchant": "KFC"}`, "23.50", "KFC", false},
		{"string amount", `{"amount": "12.90", "merchant": "Tealive"}`, "12.90", "Tealive", false},
		{"fenced", "```json\n{\"amount\": 9.90, \"merchant\": \"mamak\"}\n```", "9.90", "mamak", false},
		{"no amount", `{"merchant": "blurry shop"}`, "", "blurry shop", false},
		{"not json", "sorry, I cannot read this receipt", "", "", true},
	}
	for _, c := range cases {
		r, err := decodeReceipt(c.raw)
		if c.expectError {
			if err == nil {
				t.Fatalf("%s: expected error", c.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: decodeReceipt: %v", c.name, err)
		}
		if r.Amount != c.amount || r.Merchant != c.merchant {
			t.Fatalf("%s: want (%q, %q), got (%q, %q)", c.name, c.amount, c.merchant, r.Amount, r.Merchant)
		}
	}
}

func TestCleanModelJSON(t *testing.T) {
	in := "```json\n{\"amount\": 1}\n```"
	if got := cleanModelJSON(in); got != `{"amount": 1}` {
		t.Fatalf("fences not stripped: %q", got)
	}
	if got := cleanModelJSON(`{"amount": 1}`); got != `{"amount": 1}` {
		t.Fatalf("clean input mangled: %q", got)
	}
}
