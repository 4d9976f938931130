package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate builds a URL-friendly slug from a product or category name.
//
//	"Adventure Touring Jacket"  → "adventure-touring-jacket"
//	"Café Racer Gloves (2-pk)"  → "cafe-racer-gloves-2-pk"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	// Transliterate the accented characters that show up in gear brand names.
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ä", "a",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"í", "i", "î", "i", "ï", "i",
		"ó", "o", "ô", "o", "ö", "o",
		"ú", "u", "û", "u", "ü", "u",
		"ç", "c", "ñ", "n",
	)
	s = replacer.Replace(s)

	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	return s
}
