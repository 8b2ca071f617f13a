package extract

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Matcher applies an ordered bank of structural heuristics per line inside
// the detected table region, inferring which numeric tokens on a line are
// quantity, rate and amount. Invoices vary between "id + description + qty +
// rate + total", "qty + description + rate + total", "description + qty +
// rate + total" and "description + total" layouts; rather than pick one
// grammar, column roles are inferred from value ranges, and the validator
// catches the occasional misclassification.
type Matcher struct {
	cfg       Config
	validator *Validator
	logger    *slog.Logger
	unitRes   []*regexp.Regexp
}

func NewMatcher(cfg Config, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	unitRes := make([]*regexp.Regexp, 0, len(cfg.UnitWords))
	for _, w := range cfg.UnitWords {
		unitRes = append(unitRes, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return &Matcher{cfg: cfg, validator: NewValidator(cfg), logger: logger, unitRes: unitRes}
}

var (
	leadingIdxRe  = regexp.MustCompile(`^\d{1,4}[.)]*\s+`)
	leadingJunkRe = regexp.MustCompile(`^[\s.,:;)\-]+`)
)

// Match extracts line-item candidates from lines within bounds. Accepted
// items have passed hard validation; items that merely fail the arithmetic
// tolerance are retained and logged.
func (m *Matcher) Match(lines []string, bounds TableBounds) []LineItemCandidate {
	start := bounds.Start
	if !bounds.HeaderFound {
		// No header row: seed the table at the first plausible item line.
		start = m.seedStart(lines, bounds.End)
	}

	var items []LineItemCandidate
	pending := "" // description-only line carried to the next numeric line

	for i := start; i < bounds.End && i < len(lines); i++ {
		line := lines[i]
		if len(line) < 5 || isHeaderWord(line, m.cfg) {
			continue
		}
		line = collapseSpaces(line)

		toks := Tokens(line)
		desc := m.extractDescription(line, toks)

		if len(toks) < 2 {
			// Pure description continuation; remember it for the next
			// numeric line if it carries real content.
			if len(desc) > 2 && !isHeaderWord(desc, m.cfg) {
				pending = desc
			}
			continue
		}

		vals := sortedValues(toks)
		amount := vals[len(vals)-1]

		if allYearLike(vals) {
			continue // a date misread as an item row
		}
		if len(vals) == 2 && amount.LessThan(m.cfg.MinLineAmount) {
			continue // stray two-number noise
		}

		qty, rate := m.inferQuantityRate(vals)

		name := desc
		if len(strings.TrimSpace(name)) <= 2 {
			name = pending
		}
		if name == "" {
			continue
		}

		cand := LineItemCandidate{Name: name, Quantity: qty, Rate: rate, Amount: amount}

		// Table lock: the very first item must pass a loose arithmetic check
		// so a numeric noise line before the real table cannot open it. Once
		// one item is in, the gate is not reapplied.
		if len(items) == 0 && !m.validator.ConsistentWithin(cand, m.cfg.TableLockTolerance) {
			continue
		}

		res := m.validator.Check(cand)
		if !res.Valid {
			m.logger.Debug("dropped line item candidate", "name", cand.Name, "reason", res.Reason)
			continue
		}
		if !res.Consistent {
			m.logger.Warn("line item amount differs from quantity*rate",
				"name", cand.Name,
				"quantity", cand.Quantity,
				"rate", cand.Rate,
				"amount", cand.Amount,
			)
		}

		pending = ""
		items = append(items, cand)
	}
	return items
}

// seedStart finds the first line that itself looks like an item row: at
// least two numeric tokens, not all year-like, long enough to carry content.
func (m *Matcher) seedStart(lines []string, end int) int {
	for i := 0; i < end && i < len(lines); i++ {
		if len(lines[i]) < 5 {
			continue
		}
		toks := Tokens(lines[i])
		if len(toks) < 2 {
			continue
		}
		if allYearLike(sortedValues(toks)) {
			continue
		}
		return i
	}
	return end
}

// extractDescription removes every numeric token and known unit words from
// the line, collapses whitespace, and strips a leading bare index token
// (e.g. a row number like "01 ").
func (m *Matcher) extractDescription(line string, toks []NumericToken) string {
	var b strings.Builder
	prev := 0
	for _, t := range toks {
		if t.Position > prev {
			b.WriteString(line[prev:t.Position])
		}
		b.WriteByte(' ')
		prev = t.Position + len(t.Text)
	}
	if prev < len(line) {
		b.WriteString(line[prev:])
	}

	out := b.String()
	for _, re := range m.unitRes {
		out = re.ReplaceAllString(out, " ")
	}
	out = collapseSpaces(out)
	out = leadingIdxRe.ReplaceAllString(out, "")
	out = leadingJunkRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// inferQuantityRate disambiguates roles among the ascending values. The
// largest is always the amount. With two tokens, a plausible quantity
// divides the amount to recover the rate; otherwise the quantity is an
// implicit 1 and the smaller token is the rate. With three or more, the
// quantity is the first plausible token (else the second-largest) and the
// rate is the largest of the rest.
func (m *Matcher) inferQuantityRate(vals []decimal.Decimal) (qty, rate decimal.Decimal) {
	amount := vals[len(vals)-1]

	if len(vals) == 2 {
		s := vals[0]
		if plausibleQuantity(s, amount) {
			return s, amount.Div(s)
		}
		return one, s
	}

	rest := vals[:len(vals)-1]
	qtyIdx := -1
	for i, v := range rest {
		if plausibleQuantity(v, amount) {
			qtyIdx = i
			break
		}
	}
	if qtyIdx == -1 {
		qtyIdx = len(rest) - 1
	}
	qty = rest[qtyIdx]

	rate = decimal.Zero
	for i, v := range rest {
		if i == qtyIdx {
			continue
		}
		if v.GreaterThan(rate) {
			rate = v
		}
	}
	return qty, rate
}

func sortedValues(toks []NumericToken) []decimal.Decimal {
	vals := make([]decimal.Decimal, len(toks))
	for i, t := range toks {
		vals[i] = t.Value
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].LessThan(vals[j]) })
	return vals
}

func allYearLike(vals []decimal.Decimal) bool {
	for _, v := range vals {
		if !yearLike(v) {
			return false
		}
	}
	return true
}
