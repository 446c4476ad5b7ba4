package css

import (
	"strings"
	"unicode"
)

// ToKebabCase converts a camelCase JS property or pseudo name to CSS
// kebab-case: "backgroundColor" -> "background-color",
// "WebkitLineClamp" -> "-webkit-line-clamp". Custom properties and names
// that are already kebab-case are returned unchanged.
func ToKebabCase(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	if len(name) > 2 && strings.HasPrefix(name, "ms") && unicode.IsUpper(rune(name[2])) {
		b.WriteByte('-')
	}
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 || isVendorPrefix(name) {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isVendorPrefix(name string) bool {
	for _, p := range []string{"Webkit", "Moz", "Ms", "O"} {
		if strings.HasPrefix(name, p) && len(name) > len(p) && unicode.IsUpper(rune(name[len(p)])) {
			return true
		}
	}
	return false
}

// lowerFirst lower-cases the first rune of s.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
