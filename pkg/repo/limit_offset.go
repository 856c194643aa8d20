package repo

import "fmt"

// FormatLimitOffset renders a LIMIT/OFFSET clause, omitting whichever part
// is non-positive. Values are trusted integers, never request input.
func FormatLimitOffset(limit, offset int) string {
	switch {
	case limit > 0 && offset > 0:
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	case limit > 0:
		return fmt.Sprintf("LIMIT %d", limit)
	case offset > 0:
		return fmt.Sprintf("OFFSET %d", offset)
	}
	return ""
}
