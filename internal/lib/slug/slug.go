// Package slug turns display names into URL safe identifiers.
package slug

import (
	"strings"
	"unicode"
)

var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "õ", "o", "ô", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// Make lowercases a name, strips Portuguese accents and collapses every
// non alphanumeric run into a single dash.
func Make(name string) string {
	s := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))

	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
