package extract

import (
	"testing"
	"time"
)

func TestExtractParty(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"bill to", []string{"INVOICE", "Bill To: Acme Corp"}, "Acme Corp"},
		{"billed to", []string{"Billed to Jane Smith"}, "Jane Smith"},
		{"customer", []string{"Customer Name: Globex & Sons"}, "Globex & Sons"},
		{"attn", []string{"Attn: Mr. J. Doe"}, "Mr. J. Doe"},
		{"strips stray punctuation", []string{"Client: Initech, Inc!"}, "Initech Inc"},
		{"too short is skipped", []string{"Client: AB", "Sold To: Wayne Enterprises"}, "Wayne Enterprises"},
		{"missing", []string{"INVOICE", "Date: 2024-01-01"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractParty(tt.lines, cfg); got != tt.want {
				t.Errorf("ExtractParty = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractInvoiceNumber(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"invoice no", []string{"Invoice No: 12345"}, "12345"},
		{"invoice number", []string{"Invoice Number 2024/001"}, "2024/001"},
		{"hash", []string{"Invoice # INV-0042"}, "INV-0042"},
		{"inv abbrev", []string{"INV NO. A-17"}, "A-17"},
		{"missing", []string{"Receipt", "Thanks"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractInvoiceNumber(tt.lines, cfg); got != tt.want {
				t.Errorf("ExtractInvoiceNumber = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDate(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"iso", []string{"Date: 2024-03-15"}, "2024-03-15"},
		{"slash day first", []string{"Date: 15/03/2024"}, "2024-03-15"},
		{"slash month first", []string{"Date: 03/15/2024"}, "2024-03-15"},
		{"dotted", []string{"Date: 15.03.2024"}, "2024-03-15"},
		{"month name", []string{"March 5, 2024"}, "2024-03-05"},
		{"day month name", []string{"5 March 2024"}, "2024-03-05"},
		{"unparseable kept verbatim", []string{"Date: 99/99/2024"}, "99/99/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDate(tt.lines, cfg); got != tt.want {
				t.Errorf("ExtractDate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDateDefaultsToToday(t *testing.T) {
	got := ExtractDate([]string{"INVOICE", "no date here"}, DefaultConfig())
	if got != time.Now().Format("2006-01-02") {
		t.Errorf("ExtractDate = %q, want today", got)
	}
}
