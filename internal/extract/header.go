package extract

import (
	"regexp"
	"strings"
	"time"
)

// Header field extraction scans a bounded prefix of the line sequence with an
// ordered bank of keyword-anchored patterns; the first match wins. Missing
// fields come back empty (date excepted); defaulting is the assembler's job.

var partyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbill(?:ed)?\s+to\b[:\s]*(.+)`),
	regexp.MustCompile(`(?i)\bsold\s+to\b[:\s]*(.+)`),
	regexp.MustCompile(`(?i)\bcustomer(?:\s+name)?\b[:\s]*(.+)`),
	regexp.MustCompile(`(?i)\bclient\b[:\s]*(.+)`),
	regexp.MustCompile(`(?i)\binvoice\s+to\b[:\s]*(.+)`),
	regexp.MustCompile(`(?i)\battn\b[:.\s]*(.+)`),
}

// partyCleanRe strips everything outside word chars, whitespace, & . -
var partyCleanRe = regexp.MustCompile(`[^\w\s&.\-]`)

// ExtractParty locates the trading-party name in the document prefix.
// Candidates shorter than 4 characters after cleanup are rejected and the
// scan continues. Returns "" when nothing qualifies.
func ExtractParty(lines []string, cfg Config) string {
	limit := min(cfg.HeaderScanLines, len(lines))
	for i := 0; i < limit; i++ {
		for _, re := range partyPatterns {
			m := re.FindStringSubmatch(lines[i])
			if m == nil {
				continue
			}
			cand := strings.TrimSpace(partyCleanRe.ReplaceAllString(m[1], ""))
			if len(cand) >= 4 {
				return cand
			}
		}
	}
	return ""
}

var invoiceNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\binvoice\s*(?:no|number|num)\b\s*[#:.]*\s*([A-Za-z0-9][A-Za-z0-9/\-]*)`),
	regexp.MustCompile(`(?i)\binvoice\s*#\s*([A-Za-z0-9][A-Za-z0-9/\-]*)`),
	regexp.MustCompile(`(?i)\binv\s*(?:no|num)?\b\s*[#:.]*\s*([A-Za-z0-9][A-Za-z0-9/\-]*)`),
	regexp.MustCompile(`(?i)\binvoice\b\s*:\s*([A-Za-z0-9][A-Za-z0-9/\-]*)`),
}

// ExtractInvoiceNumber locates the invoice identifier in the document prefix.
// Returns "" when none is found; the assembler generates a placeholder.
func ExtractInvoiceNumber(lines []string, cfg Config) string {
	limit := min(cfg.HeaderScanLines, len(lines))
	for i := 0; i < limit; i++ {
		for _, re := range invoiceNumberPatterns {
			if m := re.FindStringSubmatch(lines[i]); m != nil {
				return strings.TrimSpace(m[1])
			}
		}
	}
	return ""
}

var datePatterns = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), []string{"2006-01-02"}},
	{regexp.MustCompile(`\b(\d{1,2}[/.-]\d{1,2}[/.-]\d{4})\b`), []string{
		"01/02/2006", "02/01/2006", "1/2/2006", "2/1/2006",
		"01-02-2006", "02-01-2006", "01.02.2006", "02.01.2006",
	}},
	{regexp.MustCompile(`\b(\d{1,2}[/.-]\d{1,2}[/.-]\d{2})\b`), []string{
		"01/02/06", "02/01/06", "1/2/06", "2/1/06", "01-02-06", "02-01-06",
	}},
	{regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4})\b`), []string{
		"2 Jan 2006", "2 January 2006", "2 Jan. 2006",
	}},
	{regexp.MustCompile(`(?i)\b((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4})\b`), []string{
		"Jan 2, 2006", "January 2, 2006", "Jan 2 2006", "January 2 2006", "Jan. 2, 2006",
	}},
}

// ExtractDate locates a calendar date in the document prefix and renders it
// as ISO 8601. A candidate that fails to parse is still returned verbatim
// (best-effort, never blocks the pipeline). When nothing date-like appears,
// the current date is used.
func ExtractDate(lines []string, cfg Config) string {
	limit := min(cfg.HeaderScanLines, len(lines))
	for i := 0; i < limit; i++ {
		for _, p := range datePatterns {
			m := p.re.FindStringSubmatch(lines[i])
			if m == nil {
				continue
			}
			raw := collapseSpaces(m[1])
			for _, layout := range p.layouts {
				if t, err := time.Parse(layout, raw); err == nil {
					return t.Format("2006-01-02")
				}
			}
			return raw
		}
	}
	return time.Now().Format("2006-01-02")
}
