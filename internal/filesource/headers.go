package filesource

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tabsrc/internal/table"
)

// SanitizeHeaders maps each header to an internal column name.
//
// Names are NFC-normalised and lower-cased; every run of characters that
// is not a letter or digit becomes a single underscore, trimmed at both
// ends. Empty results become "column". Collisions get a numeric suffix
// in header order, so the mapping is stable for a given header row.
func SanitizeHeaders(headers []string) table.ColumnMap {
	lower := cases.Lower(language.Und)
	out := make(table.ColumnMap, len(headers))
	used := make(map[string]bool, len(headers))

	for _, h := range headers {
		base := sanitize(lower.String(norm.NFC.String(h)))
		name := base
		for i := 2; used[name]; i++ {
			name = base + "_" + strconv.Itoa(i)
		}
		used[name] = true
		out[h] = name
	}
	return out
}

func sanitize(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "column"
	}
	return name
}
