package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// NumericToken is a parsed numeric occurrence within a line.
type NumericToken struct {
	Value    decimal.Decimal
	Text     string // original matched substring, including any currency symbol
	Position int    // byte offset within the line
}

// Grouped forms must come before the bare \d+ fallback: Go regexps are
// leftmost-first, not leftmost-longest across alternatives.
var numberRe = regexp.MustCompile(
	`[$€£₹]?\s?(?:\d{1,3}(?:,\d{3})+|\d{1,3}(?:\.\d{3})+|\d{1,3}(?: \d{3})+|\d+)(?:[.,]\d+)?`,
)

var (
	currencyStripper = strings.NewReplacer("$", "", "€", "", "£", "", "₹", "")
	commaDecimalRe   = regexp.MustCompile(`^\d*,\d{2}$`)
)

// Tokens scans a line left-to-right for numeric substrings in plain,
// thousands-comma, or European dot/space-grouped notation. Substrings that
// fail to normalize to a finite number are discarded, not reported.
func Tokens(line string) []NumericToken {
	idx := numberRe.FindAllStringIndex(line, -1)
	if idx == nil {
		return nil
	}
	toks := make([]NumericToken, 0, len(idx))
	for _, m := range idx {
		text := line[m[0]:m[1]]
		v, ok := NormalizeNumber(text)
		if !ok {
			continue
		}
		toks = append(toks, NumericToken{Value: v, Text: text, Position: m[0]})
	}
	return toks
}

// NormalizeNumber canonicalizes a numeric token across locale formats:
//
//  1. currency symbols and surrounding whitespace are stripped;
//  2. internal spaces are removed (grouped European form);
//  3. with both "," and "." present, whichever occurs last is the decimal
//     separator and the other is grouping;
//  4. a lone "," is decimal only when followed by exactly two digits,
//     otherwise it is grouping;
//  5. anything else parses as-is.
func NormalizeNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(currencyStripper.Replace(s))
	if strings.Contains(s, " ") {
		s = strings.ReplaceAll(s, " ", "")
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if commaDecimalRe.MatchString(s) {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

var (
	yearLow  = decimal.NewFromInt(1900)
	yearHigh = decimal.NewFromInt(2100)
	maxQty   = decimal.NewFromInt(100)
)

// yearLike reports whether v falls in the calendar-year range that marks
// dates misread as item rows.
func yearLike(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(yearLow) && v.LessThanOrEqual(yearHigh)
}

// plausibleQuantity reports whether v could be a unit count on a line whose
// stated amount is amount: positive, at most 100, not year-like, and strictly
// below the amount so equal token pairs resolve to an implicit quantity of 1.
func plausibleQuantity(v, amount decimal.Decimal) bool {
	return v.IsPositive() && v.LessThanOrEqual(maxQty) && !yearLike(v) && v.LessThan(amount)
}
