package money

import (
	"encoding/json"
	"testing"
)

func TestParseAndString(t *testing.T) {
	cases := []struct{ in, want string }{
		{"100", "100"},
		{"100.50", "100.50"},
		{" 8500.00 ", "8500.00"},
		{"-1", "-1"},
		{"0", "0"},
	}
	for _, tc := range cases {
		d, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if d.String() != tc.want {
			t.Fatalf("parse %q: got %q, want %q", tc.in, d.String(), tc.want)
		}
	}
	if _, err := Parse("not-a-number"); err == nil {
		t.Fatalf("expected parse failure")
	}
}

func TestArithmetic(t *testing.T) {
	a, _ := Parse("8500.00")
	total := a.MulInt(2)
	want, _ := Parse("17000.00")
	if total.Cmp(want) != 0 {
		t.Fatalf("8500.00 * 2 = %s", total)
	}

	b, _ := Parse("99.99")
	sum := a.Add(b)
	wantSum, _ := Parse("8599.99")
	if sum.Cmp(wantSum) != 0 {
		t.Fatalf("sum = %s", sum)
	}

	if !Zero().IsZero() {
		t.Fatalf("zero value must report zero")
	}
	neg, _ := Parse("-0.01")
	if !neg.IsNegative() {
		t.Fatalf("-0.01 must be negative")
	}
}

func TestCmpIgnoresTrailingZeros(t *testing.T) {
	a, _ := Parse("100")
	b, _ := Parse("100.00")
	if a.Cmp(b) != 0 {
		t.Fatalf("100 and 100.00 must compare equal")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d, _ := Parse("250.50")
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "250.50" {
		t.Fatalf("expected plain number, got %s", raw)
	}

	var fromNumber Decimal
	if err := json.Unmarshal([]byte(`100.5`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	var fromString Decimal
	if err := json.Unmarshal([]byte(`"100.50"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if fromNumber.Cmp(fromString) != 0 {
		t.Fatalf("number and string forms must agree: %s vs %s", fromNumber, fromString)
	}

	var empty Decimal
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !empty.IsZero() {
		t.Fatalf("null must decode to zero")
	}
}
