package css

import (
	"regexp"
	"strings"
)

var (
	commaSpace = regexp.MustCompile(`\s*,\s*`)
	hexColor   = regexp.MustCompile(`#([0-9a-fA-F]{8}|[0-9a-fA-F]{6}|[0-9a-fA-F]{3,4})\b`)

	// "1." -> "1.0" when the dot starts no fraction
	bareDot = regexp.MustCompile(`(^|[\s,(\-])(\d+)\.([^\d]|$)`)
	// zero-valued lengths: -0px, 0.0em, 00px
	zeroLength = regexp.MustCompile(`(^|[\s,(])-?0+(?:\.0+)?([a-zA-Z]*)`)
	// 0.5 -> .5, -0.2em -> -.2em
	leadingZero = regexp.MustCompile(`(^|[\s,(\-])0+\.(\d)`)

	trailingSemicolon = regexp.MustCompile(`;((?:\)?["'` + "`" + `])?)$`)
)

// lengthUnits are the units whose zero value may be written as a bare 0.
// Time, angle and percentage units are kept because a unitless 0 is not
// valid for every property accepting them.
var lengthUnits = map[string]bool{
	"":     true,
	"px":   true,
	"em":   true,
	"rem":  true,
	"ex":   true,
	"ch":   true,
	"vh":   true,
	"vw":   true,
	"vmin": true,
	"vmax": true,
	"dvh":  true,
	"dvw":  true,
	"svh":  true,
	"svw":  true,
	"lvh":  true,
	"lvw":  true,
	"cm":   true,
	"mm":   true,
	"in":   true,
	"pt":   true,
	"pc":   true,
}

// OptimizeValue canonicalizes a CSS literal value so equivalent spellings
// share one style key. The passes are textual on purpose; generated class
// names depend on their exact output.
func OptimizeValue(value string) string {
	ret := strings.TrimSpace(value)
	if strings.Contains(ret, ",") {
		ret = commaSpace.ReplaceAllString(ret, ",")
	}
	if strings.Contains(ret, "#") {
		ret = mapUnquoted(ret, foldHexColors)
	}
	if strings.Contains(ret, "0") {
		ret = mapUnquoted(ret, optimizeZeros)
	}
	return trailingSemicolon.ReplaceAllString(ret, "$1")
}

func foldHexColors(s string) string {
	return hexColor.ReplaceAllStringFunc(s, func(m string) string {
		hex := strings.ToUpper(m[1:])
		if len(hex) == 6 || len(hex) == 8 {
			short := make([]byte, 0, len(hex)/2)
			for i := 0; i < len(hex); i += 2 {
				if hex[i] != hex[i+1] {
					return "#" + hex
				}
				short = append(short, hex[i])
			}
			return "#" + string(short)
		}
		return "#" + hex
	})
}

func optimizeZeros(s string) string {
	s = bareDot.ReplaceAllString(s, "${1}${2}.0${3}")
	s = collapseZeroLengths(s)
	return leadingZero.ReplaceAllString(s, "${1}.${2}")
}

// collapseZeroLengths rewrites zero lengths to "0". Go regexp has no
// lookahead, so the token end is checked by hand.
func collapseZeroLengths(s string) string {
	matches := zeroLength.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		end := m[1]
		unit := s[m[4]:m[5]]
		if !lengthUnits[strings.ToLower(unit)] || !isTokenEnd(s, end) {
			continue
		}
		b.WriteString(s[last:m[3]])
		b.WriteByte('0')
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func isTokenEnd(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	switch s[i] {
	case ' ', '\t', '\n', ',', ')', '/', ';', '"', '\'', '`', '!':
		return true
	}
	return false
}

// mapUnquoted applies fn to the parts of s outside quoted strings and
// url(...) arguments.
func mapUnquoted(s string, fn func(string) string) string {
	var b strings.Builder
	start := 0
	for i := 0; i < len(s); i++ {
		var end int
		switch {
		case s[i] == '"' || s[i] == '\'':
			end = strings.IndexByte(s[i+1:], s[i])
			if end < 0 {
				continue
			}
			end += i + 2
		case strings.HasPrefix(s[i:], "url("):
			end = strings.IndexByte(s[i:], ')')
			if end < 0 {
				continue
			}
			end += i + 1
		default:
			continue
		}
		b.WriteString(fn(s[start:i]))
		b.WriteString(s[i:end])
		start = end
		i = end - 1
	}
	b.WriteString(fn(s[start:]))
	return b.String()
}
