package domain

import "strings"

// accentFold: the fixed set of accented characters folded to their base
// letter. Accents outside this set pass through unchanged; lookups are only
// accent-insensitive for the characters profession names actually use.
var accentFold = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "ä", "a",
	"ù", "u", "û", "u", "ü", "u",
	"ô", "o", "ö", "o",
	"î", "i", "ï", "i",
	"ç", "c",
)

// Normalize canonicalizes a profession name for lookup, storage and equality:
// trim, lowercase, fold accents. Idempotent and total.
func Normalize(s string) string {
	return accentFold.Replace(strings.ToLower(strings.TrimSpace(s)))
}
