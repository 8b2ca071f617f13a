package extract

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// TotalsBlock carries the explicitly stated totals; each field defaults to
// zero when no matching line is found.
type TotalsBlock struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

var (
	subtotalRe   = regexp.MustCompile(`(?i)\bsub\s*-?\s*total\b`)
	taxRe        = regexp.MustCompile(`(?i)\b(?:tax|vat|gst)\b`)
	grandTotalRe = regexp.MustCompile(`(?i)\b(?:grand\s+)?total\b|\bamount\s+due\b`)
)

// ExtractTotals scans the trailing lines for subtotal/tax/grand-total
// keywords, taking the last numeric token on each matching line. Later
// matches overwrite earlier ones for the same field.
func ExtractTotals(lines []string, cfg Config) TotalsBlock {
	var t TotalsBlock

	start := len(lines) - cfg.TotalsScanLines
	if start < 0 {
		start = 0
	}
	for i := start; i < len(lines); i++ {
		toks := Tokens(lines[i])
		if len(toks) == 0 {
			continue
		}
		last := toks[len(toks)-1].Value
		switch {
		case subtotalRe.MatchString(lines[i]):
			t.Subtotal = last
		case taxRe.MatchString(lines[i]):
			t.Tax = last
		case grandTotalRe.MatchString(lines[i]):
			t.GrandTotal = last
		}
	}
	return t
}
