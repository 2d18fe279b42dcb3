// Package strings holds small text helpers for operator output.
package strings

import (
	"strings"
)

// DefaultCellMaxLen is the widest attribute cell printed in table output.
const DefaultCellMaxLen = 60

// MinTruncateLen is the smallest maxLen Truncate honors; it leaves room for
// one character plus "...".
const MinTruncateLen = 4

// Truncate collapses s onto a single line and shortens it to maxLen runes,
// ending in "..." when cut. Attribute values may contain newlines, which
// would break table rows.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
