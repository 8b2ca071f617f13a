package extract

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExtractTotals(t *testing.T) {
	cfg := DefaultConfig()

	lines := []string{
		"Widget 2 15.00 30.00",
		"Service Fee 50.00 50.00",
		"Subtotal 80.00",
		"Sales Tax 8.00",
		"Total 88.00",
	}
	got := ExtractTotals(lines, cfg)

	assertDecimal(t, "Subtotal", got.Subtotal, "80")
	assertDecimal(t, "Tax", got.Tax, "8")
	assertDecimal(t, "GrandTotal", got.GrandTotal, "88")
}

func TestExtractTotalsLastMatchWins(t *testing.T) {
	got := ExtractTotals([]string{
		"Total 80.00",
		"Grand Total 88.00",
	}, DefaultConfig())
	assertDecimal(t, "GrandTotal", got.GrandTotal, "88")
}

func TestExtractTotalsTakesLastTokenOnLine(t *testing.T) {
	got := ExtractTotals([]string{
		"Subtotal (2 items) 80.00",
	}, DefaultConfig())
	assertDecimal(t, "Subtotal", got.Subtotal, "80")
}

func TestExtractTotalsMissingFieldsStayZero(t *testing.T) {
	got := ExtractTotals([]string{
		"Total 88.00",
	}, DefaultConfig())
	assertDecimal(t, "Subtotal", got.Subtotal, "0")
	assertDecimal(t, "Tax", got.Tax, "0")
	assertDecimal(t, "GrandTotal", got.GrandTotal, "88")
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	w, _ := decimal.NewFromString(want)
	if !got.Equal(w) {
		t.Errorf("%s = %s, want %s", label, got, w)
	}
}
