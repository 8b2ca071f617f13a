package extract

import "strings"

// SplitLines breaks a recognized text blob into trimmed non-empty lines.
// Relative order is preserved; every downstream stage depends on it.
// Empty input yields an empty slice, which all stages treat as "no fields found".
func SplitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// collapseSpaces folds runs of whitespace into single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
