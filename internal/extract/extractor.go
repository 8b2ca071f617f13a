package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/docuparse/invoice-extract/internal/entity"
)

// Extractor converts recognized invoice text into a normalized record.
// Extraction is pure and bounded: every stage treats missing input as "field
// not found" and the caller always gets a best-effort record back, never an
// error. Safe for concurrent use across documents.
type Extractor struct {
	cfg     Config
	logger  *slog.Logger
	matcher *Matcher
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		cfg:     cfg,
		logger:  logger,
		matcher: NewMatcher(cfg, logger),
	}
}

// Extract runs the full pipeline over one document's recognized text:
// normalize lines, pull header fields, detect the table, match and validate
// line items, pick up totals, then assemble the record with fallbacks for
// anything not found.
func (e *Extractor) Extract(raw string) entity.Invoice {
	lines := SplitLines(raw)

	party := ExtractParty(lines, e.cfg)
	number := ExtractInvoiceNumber(lines, e.cfg)
	date := ExtractDate(lines, e.cfg)

	bounds := DetectBounds(lines, e.cfg)
	candidates := e.matcher.Match(lines, bounds)
	totals := ExtractTotals(lines, e.cfg)

	items := make([]entity.LineItem, 0, len(candidates))
	itemSum := decimal.Zero
	for _, c := range candidates {
		items = append(items, entity.LineItem{
			Code:     ShortCode(c.Name),
			Name:     c.Name,
			Quantity: c.Quantity,
			Rate:     c.Rate,
			Amount:   c.Amount,
		})
		itemSum = itemSum.Add(c.Amount)
	}

	total := totals.Subtotal
	if !total.IsPositive() {
		total = itemSum
	}
	grand := totals.GrandTotal
	if !grand.IsPositive() {
		grand = total
	}

	// Placeholders are applied only here, so earlier stages can distinguish
	// "not yet found" from "deliberately defaulted".
	needsReview := false
	if party == "" {
		party = "Unknown Customer"
		needsReview = true
	}
	if number == "" {
		number = fmt.Sprintf("INV-%d", time.Now().UTC().Unix())
		needsReview = true
	}
	if len(items) == 0 {
		needsReview = true
	}

	inv := entity.Invoice{
		ID:            uuid.New(),
		Party:         party,
		InvoiceNumber: number,
		Date:          date,
		Items:         items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         total,
		GrandTotal:    grand,
		NeedsReview:   needsReview,
		ExtractedAt:   time.Now().UTC(),
	}

	e.logger.Debug("extracted invoice",
		"party", inv.Party,
		"invoice_number", inv.InvoiceNumber,
		"items", len(inv.Items),
		"total", inv.Total,
		"grand_total", inv.GrandTotal,
		"needs_review", inv.NeedsReview,
	)
	return inv
}

// ShortCode derives an alphabetic acronym from the first few words of an
// item name, uppercased. Names without alphabetic tokens fall back to "ITEM".
func ShortCode(name string) string {
	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(name) {
		r := []rune(w)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if n++; n >= 3 {
			break
		}
	}
	if n == 0 {
		return "ITEM"
	}
	return b.String()
}
