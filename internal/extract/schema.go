package extract

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// assembled invoice record as a generic map. The pipeline validates each
// record against it before persistence; failures flag the record for review
// rather than failing the run.
func BuildInvoiceJSONSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"code":     map[string]any{"type": "string", "minLength": 1},
			"name":     map[string]any{"type": "string", "minLength": 2},
			"quantity": decimalProp(),
			"rate":     decimalProp(),
			"amount":   decimalProp(),
		},
		"required": []string{"name", "quantity", "rate", "amount"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":             map[string]any{"type": "string", "minLength": 36, "maxLength": 36},
			"party":          map[string]any{"type": "string", "minLength": 1},
			"invoice_number": map[string]any{"type": "string", "minLength": 1},
			// Best-effort field: unparseable date candidates pass through
			// verbatim, so no ISO pattern is enforced here.
			"date":         map[string]any{"type": "string", "minLength": 1},
			"items":        map[string]any{"type": "array", "items": item},
			"subtotal":     decimalProp(),
			"tax":          decimalProp(),
			"total":        decimalProp(),
			"grand_total":  decimalProp(),
			"source_path":  map[string]any{"type": "string"},
			"confidence":   map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"needs_review": map[string]any{"type": "boolean"},
			"extracted_at": map[string]any{"type": "string"},
		},
		"required": []string{"party", "invoice_number", "date", "items", "total", "grand_total"},
	}
}

func decimalProp() map[string]any {
	// decimals marshal as quoted strings; rates from division may carry long
	// fractional parts
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d+)?$`,
	}
}
