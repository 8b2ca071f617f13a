package extract

import "github.com/shopspring/decimal"

// LineItemCandidate is a structural match not yet accepted into the table.
// Invalid candidates are discarded and never persisted.
type LineItemCandidate struct {
	Name     string
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// ValidationResult separates hard failures (drop the candidate) from
// arithmetic inconsistency (keep it, flagged for review; recall over
// precision).
type ValidationResult struct {
	Valid      bool
	Consistent bool
	Reason     string
}

// Validator checks candidates for magnitude plausibility and arithmetic
// consistency against the configured tolerances.
type Validator struct {
	cfg Config
}

func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

var one = decimal.NewFromInt(1)

// Check applies the hard rules, then the tolerance check. A candidate that
// passes the hard rules but misses the tolerance comes back Valid but not
// Consistent.
func (v *Validator) Check(c LineItemCandidate) ValidationResult {
	switch {
	case len(c.Name) < 2:
		return ValidationResult{Reason: "name too short"}
	case !c.Quantity.IsPositive() || !c.Rate.IsPositive() || !c.Amount.IsPositive():
		return ValidationResult{Reason: "non-positive field"}
	case c.Quantity.GreaterThan(v.cfg.MaxQuantity):
		return ValidationResult{Reason: "implausible quantity"}
	case c.Rate.GreaterThan(v.cfg.MaxRate):
		return ValidationResult{Reason: "implausible rate"}
	case c.Amount.GreaterThan(v.cfg.MaxAmount):
		return ValidationResult{Reason: "implausible amount"}
	}
	return ValidationResult{
		Valid:      true,
		Consistent: v.ConsistentWithin(c, v.cfg.ItemTolerance),
	}
}

// ConsistentWithin reports whether quantity*rate matches the stated amount
// within the given relative tolerance, a 1-unit absolute floor, or the
// penny-rounding slack, whichever is most permissive.
func (v *Validator) ConsistentWithin(c LineItemCandidate, tolerance decimal.Decimal) bool {
	product := c.Quantity.Mul(c.Rate)
	diff := product.Sub(c.Amount).Abs()

	limit := decimal.Max(c.Amount.Mul(tolerance), one)
	if diff.LessThanOrEqual(limit) {
		return true
	}
	return product.Round(2).Sub(c.Amount).Abs().LessThanOrEqual(v.cfg.RoundingSlack)
}
