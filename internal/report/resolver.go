package report

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Named is any catalog entry a free-text filter can resolve against.
type Named struct {
	ID   int64
	Name string
}

// Resolve matches a human-entered name against a catalog list. Empty input
// and misses both resolve to nil: an unresolved filter is simply omitted,
// never an error. An exact normalized match wins over containment; among
// containment matches the first in list order wins.
func Resolve(name string, list []Named) *int64 {
	query := normalizeName(name)
	if query == "" {
		return nil
	}
	for _, item := range list {
		if normalizeName(item.Name) == query {
			id := item.ID
			return &id
		}
	}
	for _, item := range list {
		if strings.Contains(normalizeName(item.Name), query) {
			id := item.ID
			return &id
		}
	}
	return nil
}

// stripMarks decomposes to NFD and removes combining marks, so "Educación"
// and "educacion" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeName(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
