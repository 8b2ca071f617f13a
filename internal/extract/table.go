package extract

import "strings"

// TableBounds delimits the line-item table over the line sequence.
// When no header row is found, HeaderFound is false and Start is zero: the
// matcher then seeds the table at the first line that looks like an item row.
type TableBounds struct {
	Start       int // first line after the header row
	End         int // exclusive; index of the footer line or len(lines)
	HeaderFound bool
}

// DetectBounds locates the start and end of the line-item table.
//
// A line within the scan window counts as the header row when at least two
// distinct column roles have an alias keyword present (case-insensitive
// substring match). The footer is the first subsequent line carrying any
// footer keyword; absent one, the table runs to the end of the document.
func DetectBounds(lines []string, cfg Config) TableBounds {
	b := TableBounds{End: len(lines)}

	limit := min(cfg.TableScanLines, len(lines))
	for i := 0; i < limit; i++ {
		if countRoleMatches(lines[i], cfg) >= 2 {
			b.Start = i + 1
			b.HeaderFound = true
			break
		}
	}

	for i := b.Start; i < len(lines); i++ {
		if hasFooterKeyword(lines[i], cfg) {
			b.End = i
			break
		}
	}
	return b
}

func countRoleMatches(line string, cfg Config) int {
	l := strings.ToLower(line)
	n := 0
	for _, aliases := range cfg.ColumnAliases {
		for _, kw := range aliases {
			if strings.Contains(l, kw) {
				n++
				break
			}
		}
	}
	return n
}

func hasFooterKeyword(line string, cfg Config) bool {
	l := strings.ToLower(line)
	for _, kw := range cfg.FooterKeywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

// isHeaderWord reports whether s, in its entirety, is one of the configured
// column-alias keywords.
func isHeaderWord(s string, cfg Config) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, aliases := range cfg.ColumnAliases {
		for _, kw := range aliases {
			if s == kw {
				return true
			}
		}
	}
	return false
}
