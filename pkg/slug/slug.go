package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name. Common accented
// Latin characters are transliterated to their ASCII equivalents.
//
// Examples:
//   - "Café Press" → "cafe-press"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "ä", "a", "â", "a", "ã", "a",
		"é", "e", "è", "e", "ë", "e", "ê", "e",
		"í", "i", "ì", "i", "ï", "i", "î", "i",
		"ó", "o", "ò", "o", "ö", "o", "ô", "o", "õ", "o",
		"ú", "u", "ù", "u", "ü", "u", "û", "u",
		"ñ", "n", "ç", "c", "ß", "ss",
	)
	slug = replacer.Replace(slug)

	// Replace any remaining non-alphanumeric runs with single hyphens.
	slug = nonAlnum.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}
