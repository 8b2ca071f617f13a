package extract

import (
	"testing"

	"github.com/shopspring/decimal"
)

func candidate(name string, qty, rate, amount string) LineItemCandidate {
	q, _ := decimal.NewFromString(qty)
	r, _ := decimal.NewFromString(rate)
	a, _ := decimal.NewFromString(amount)
	return LineItemCandidate{Name: name, Quantity: q, Rate: r, Amount: a}
}

func TestValidatorCheck(t *testing.T) {
	v := NewValidator(DefaultConfig())

	tests := []struct {
		name       string
		cand       LineItemCandidate
		valid      bool
		consistent bool
	}{
		{"exact product", candidate("Widget", "2", "15", "30"), true, true},
		{"within tolerance", candidate("Gadget", "3", "10", "31.5"), true, true},
		{"absolute floor on small amounts", candidate("Pin", "3", "0.30", "1.20"), true, true},
		{"penny rounding", candidate("Bolt", "3", "0.333", "1.00"), true, true},
		{"inconsistent", candidate("Widget", "3", "10", "50"), true, false},
		{"short name", candidate("W", "2", "15", "30"), false, false},
		{"zero quantity", candidate("Widget", "0", "15", "30"), false, false},
		{"negative rate", candidate("Widget", "2", "-15", "30"), false, false},
		{"implausible quantity", candidate("Widget", "200000", "1", "200000"), false, false},
		{"implausible amount", candidate("Widget", "1", "999999", "99999999"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Check(tt.cand)
			if res.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (reason %q)", res.Valid, tt.valid, res.Reason)
			}
			if res.Consistent != tt.consistent {
				t.Errorf("Consistent = %v, want %v", res.Consistent, tt.consistent)
			}
		})
	}
}

func TestConsistentWithinLooseTolerance(t *testing.T) {
	v := NewValidator(DefaultConfig())
	quarter := decimal.NewFromFloat(0.25)

	// 2*15=30 vs 36: off by 6, within 25% of 36.
	if !v.ConsistentWithin(candidate("Widget", "2", "15", "36"), quarter) {
		t.Error("expected 30 vs 36 to pass the 25% gate")
	}
	// 77*1234 is nowhere near 9999.
	if v.ConsistentWithin(candidate("Ref", "77", "1234", "9999"), quarter) {
		t.Error("expected wildly inconsistent candidate to fail the 25% gate")
	}
}
