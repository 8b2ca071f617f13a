package extract

import "github.com/shopspring/decimal"

// Role identifies the semantic table column a header keyword maps to.
type Role string

const (
	RoleID       Role = "id"
	RoleItem     Role = "item"
	RoleQuantity Role = "quantity"
	RoleRate     Role = "rate"
	RoleTotal    Role = "total"
)

// Config carries the keyword tables, tolerances and scan windows used by the
// extraction stages. It is passed explicitly into the pipeline entry point so
// multiple configurations (e.g. per-locale keyword sets) can run concurrently.
type Config struct {
	// ColumnAliases maps each column role to its header-keyword synonyms.
	// Matched case-insensitively as substrings. Never mutated at runtime.
	ColumnAliases map[Role][]string

	// FooterKeywords terminate the line-item table when any appears in a line.
	FooterKeywords []string

	// UnitWords are stripped from item descriptions alongside numeric tokens.
	UnitWords []string

	HeaderScanLines int // prefix window for party/date/invoice-number extraction
	TableScanLines  int // prefix window for header-row detection
	TotalsScanLines int // suffix window for subtotal/tax/total extraction

	// MinLineAmount suppresses two-number noise lines whose largest token is
	// below a plausible invoice-line magnitude.
	MinLineAmount decimal.Decimal

	MaxQuantity decimal.Decimal
	MaxRate     decimal.Decimal
	MaxAmount   decimal.Decimal

	// ItemTolerance is the relative deviation allowed between a line's stated
	// amount and quantity*rate before the item is flagged inconsistent.
	ItemTolerance decimal.Decimal

	// TableLockTolerance is the looser bound the very first item must satisfy
	// before the table is considered open.
	TableLockTolerance decimal.Decimal

	// RoundingSlack is the penny-rounding escape on the tolerance check.
	RoundingSlack decimal.Decimal
}

// DefaultConfig returns the keyword tables and tolerances tuned for common
// English-language invoice layouts.
func DefaultConfig() Config {
	return Config{
		ColumnAliases: map[Role][]string{
			RoleID:       {"id", "sl", "sr", "s.no", "no."},
			RoleItem:     {"item", "description", "desc", "product", "service", "particulars", "details"},
			RoleQuantity: {"qty", "quantity", "units", "hours", "hrs"},
			RoleRate:     {"rate", "price", "unit price", "unit cost", "cost", "each"},
			RoleTotal:    {"total", "amount", "line total", "value"},
		},
		FooterKeywords: []string{
			"subtotal", "grand total", "total due", "amount due", "tax", "vat",
			"gst", "thank you", "notes", "terms", "payment",
		},
		UnitWords: []string{"each", "pcs", "unit", "nos"},

		HeaderScanLines: 25,
		TableScanLines:  30,
		TotalsScanLines: 20,

		MinLineAmount: decimal.NewFromInt(20),
		MaxQuantity:   decimal.NewFromInt(100_000),
		MaxRate:       decimal.NewFromInt(1_000_000),
		MaxAmount:     decimal.NewFromInt(10_000_000),

		ItemTolerance:      decimal.NewFromFloat(0.15),
		TableLockTolerance: decimal.NewFromFloat(0.25),
		RoundingSlack:      decimal.NewFromFloat(0.02),
	}
}
