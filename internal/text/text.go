// Package text holds small string helpers shared by accessors and views.
package text

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// Clean removes control characters and collapses whitespace runs.
func Clean(s string) string {
	s = controlChars.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// RuneLen counts characters rather than bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most max runes, cutting at a word boundary when
// one is close and appending an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := max - 1
	for i := cut; i > cut*3/4; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " ,.;:") + "…"
}

// FormatNumber renders an optional measurement. ok is false when the value
// is absent so callers can show a placeholder instead of a false zero.
func FormatNumber(v *float64) (s string, ok bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "", false
	}
	return strconv.FormatFloat(*v, 'f', -1, 64), true
}
