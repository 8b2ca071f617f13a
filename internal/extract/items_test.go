package extract

import (
	"testing"

	"github.com/shopspring/decimal"
)

func matchItems(t *testing.T, lines []string) []LineItemCandidate {
	t.Helper()
	cfg := DefaultConfig()
	m := NewMatcher(cfg, nil)
	return m.Match(lines, DetectBounds(lines, cfg))
}

func assertItem(t *testing.T, got LineItemCandidate, name, qty, rate, amount string) {
	t.Helper()
	if got.Name != name {
		t.Errorf("Name = %q, want %q", got.Name, name)
	}
	for _, f := range []struct {
		label string
		got   decimal.Decimal
		want  string
	}{
		{"Quantity", got.Quantity, qty},
		{"Rate", got.Rate, rate},
		{"Amount", got.Amount, amount},
	} {
		want, _ := decimal.NewFromString(f.want)
		if !f.got.Equal(want) {
			t.Errorf("%s = %s, want %s", f.label, f.got, want)
		}
	}
}

func TestMatchStandardTable(t *testing.T) {
	items := matchItems(t, []string{
		"Item Qty Rate Amount",
		"Widget 2 15.00 30.00",
		"Gadget 3 10.00 30.00",
	})
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	assertItem(t, items[0], "Widget", "2", "15", "30")
	assertItem(t, items[1], "Gadget", "3", "10", "30")
}

func TestMatchEuropeanNumbersAndUnitWords(t *testing.T) {
	items := matchItems(t, []string{
		"Description Qty Price Total",
		"HP Computer 5,00 each 37,75 188,75",
	})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	assertItem(t, items[0], "HP Computer", "5", "37.75", "188.75")
}

func TestMatchImplicitQuantity(t *testing.T) {
	// An equal token pair reads as amount with implicit quantity 1.
	items := matchItems(t, []string{
		"Description Qty Rate Amount",
		"Service Fee 50.00 50.00",
	})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	assertItem(t, items[0], "Service Fee", "1", "50", "50")
}

func TestMatchSkipsYearOnlyLines(t *testing.T) {
	items := matchItems(t, []string{
		"Item Qty Rate Amount",
		"2023 2024",
		"Widget 2 15.00 30.00",
	})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	assertItem(t, items[0], "Widget", "2", "15", "30")
}

func TestMatchSkipsLowValueNoise(t *testing.T) {
	items := matchItems(t, []string{
		"Item Qty Rate Amount",
		"Page 1 2",
		"Widget 2 15.00 30.00",
	})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	assertItem(t, items[0], "Widget", "2", "15", "30")
}

func TestMatchCarriesPendingDescription(t *testing.T) {
	// Description on its own line, numbers wrapped onto the next.
	items := matchItems(t, []string{
		"Item Qty Rate Amount",
		"Premium Widget Deluxe",
		"2 15.00 30.00",
	})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	assertItem(t, items[0], "Premium Widget Deluxe", "2", "15", "30")
}

func TestMatchTableLockRejectsLeadingNoise(t *testing.T) {
	// A numeric noise line before the real table must not open it.
	items := matchItems(t, []string{
		"Item Qty Rate Amount",
		"Ref 77 1234 9999",
		"Widget 2 15.00 30.00",
	})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	assertItem(t, items[0], "Widget", "2", "15", "30")
}

func TestMatchWithoutHeaderSeedsAtFirstItemLine(t *testing.T) {
	items := matchItems(t, []string{
		"Receipt from the corner store",
		"Coffee Beans 2 12.50 25.00",
		"Thank you",
	})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	assertItem(t, items[0], "Coffee Beans", "2", "12.5", "25")
}
