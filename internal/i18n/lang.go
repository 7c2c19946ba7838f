// Package i18n holds the display languages, their UI string tables and
// localized date formatting.
package i18n

import "strings"

type Lang string

const (
	ES Lang = "es"
	EN Lang = "en"

	Default = ES
)

// All lists supported languages in display order.
var All = []Lang{ES, EN}

// Parse accepts a language code such as "en" or "en-US".
func Parse(code string) (Lang, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	for _, l := range All {
		if string(l) == code {
			return l, true
		}
	}
	return "", false
}

func (l Lang) String() string { return string(l) }
