package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the normalized record produced by the extraction pipeline,
// used for data transfer between layers.
type Invoice struct {
	ID            uuid.UUID       `json:"id"`
	Party         string          `json:"party"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          string          `json:"date"` // ISO 8601 YYYY-MM-DD when parseable
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	SourcePath    string          `json:"source_path,omitempty"`
	Confidence    float32         `json:"confidence,omitempty"`
	NeedsReview   bool            `json:"needs_review"`
	ExtractedAt   time.Time       `json:"extracted_at"`
}

// LineItem is a validated invoice line with its derived short code.
type LineItem struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}
