// Package tailwind maps Tailwind utility class names to style declarations.
package tailwind

import (
	"strconv"
	"strings"
)

// Utility is the style a utility class stands for. Property may be a
// shorthand alias ("px") understood by css.ExpandProperty.
type Utility struct {
	Property string
	Value    string
	Level    uint8
	// Variants are selector names such as "hover" or "groupHover".
	Variants []string
}

// breakpoints maps responsive prefixes to levels.
var breakpoints = map[string]uint8{
	"sm":  1,
	"md":  2,
	"lg":  3,
	"xl":  4,
	"2xl": 5,
}

// variants maps variant prefixes to selector names.
var variants = map[string]string{
	"hover":         "hover",
	"focus":         "focus",
	"focus-visible": "focusVisible",
	"active":        "active",
	"disabled":      "disabled",
	"first":         "firstChild",
	"last":          "lastChild",
	"group-hover":   "groupHover",
	"group-focus":   "groupFocus",
	"peer-hover":    "peerHover",
	"peer-focus":    "peerFocus",
	"dark":          "themeDark",
	"placeholder":   "placeholder",
	"before":        "before",
	"after":         "after",
}

// keywords are utilities with a fixed declaration.
var keywords = map[string]Utility{
	"block":           {Property: "display", Value: "block"},
	"inline-block":    {Property: "display", Value: "inline-block"},
	"inline":          {Property: "display", Value: "inline"},
	"flex":            {Property: "display", Value: "flex"},
	"inline-flex":     {Property: "display", Value: "inline-flex"},
	"grid":            {Property: "display", Value: "grid"},
	"hidden":          {Property: "display", Value: "none"},
	"contents":        {Property: "display", Value: "contents"},
	"flex-row":        {Property: "flex-direction", Value: "row"},
	"flex-col":        {Property: "flex-direction", Value: "column"},
	"flex-wrap":       {Property: "flex-wrap", Value: "wrap"},
	"flex-nowrap":     {Property: "flex-wrap", Value: "nowrap"},
	"flex-1":          {Property: "flex", Value: "1 1 0%"},
	"flex-auto":       {Property: "flex", Value: "1 1 auto"},
	"flex-none":       {Property: "flex", Value: "none"},
	"grow":            {Property: "flex-grow", Value: "1"},
	"shrink-0":        {Property: "flex-shrink", Value: "0"},
	"static":          {Property: "position", Value: "static"},
	"relative":        {Property: "position", Value: "relative"},
	"absolute":        {Property: "position", Value: "absolute"},
	"fixed":           {Property: "position", Value: "fixed"},
	"sticky":          {Property: "position", Value: "sticky"},
	"italic":          {Property: "font-style", Value: "italic"},
	"underline":       {Property: "text-decoration-line", Value: "underline"},
	"line-through":    {Property: "text-decoration-line", Value: "line-through"},
	"no-underline":    {Property: "text-decoration-line", Value: "none"},
	"uppercase":       {Property: "text-transform", Value: "uppercase"},
	"lowercase":       {Property: "text-transform", Value: "lowercase"},
	"capitalize":      {Property: "text-transform", Value: "capitalize"},
	"truncate":        {Property: "text-overflow", Value: "ellipsis"},
	"text-left":       {Property: "text-align", Value: "left"},
	"text-center":     {Property: "text-align", Value: "center"},
	"text-right":      {Property: "text-align", Value: "right"},
	"font-thin":       {Property: "font-weight", Value: "100"},
	"font-light":      {Property: "font-weight", Value: "300"},
	"font-normal":     {Property: "font-weight", Value: "400"},
	"font-medium":     {Property: "font-weight", Value: "500"},
	"font-semibold":   {Property: "font-weight", Value: "600"},
	"font-bold":       {Property: "font-weight", Value: "700"},
	"cursor-pointer":  {Property: "cursor", Value: "pointer"},
	"overflow-hidden": {Property: "overflow", Value: "hidden"},
	"overflow-auto":   {Property: "overflow", Value: "auto"},
	"border":          {Property: "border-width", Value: "1px"},
	"rounded":         {Property: "border-radius", Value: ".25rem"},
	"w-full":          {Property: "width", Value: "100%"},
	"h-full":          {Property: "height", Value: "100%"},
	"w-screen":        {Property: "width", Value: "100vw"},
	"h-screen":        {Property: "height", Value: "100vh"},
	"w-auto":          {Property: "width", Value: "auto"},
	"h-auto":          {Property: "height", Value: "auto"},
	"mx-auto":         {Property: "mx", Value: "auto"},
}

// prefixed are utilities taking a value after the prefix.
var prefixed = []struct {
	prefix   string
	property string
	values   func(string) (string, bool)
}{
	{"gap-x-", "column-gap", spacing},
	{"gap-y-", "row-gap", spacing},
	{"gap-", "gap", spacing},
	{"px-", "px", spacing},
	{"py-", "py", spacing},
	{"pt-", "padding-top", spacing},
	{"pr-", "padding-right", spacing},
	{"pb-", "padding-bottom", spacing},
	{"pl-", "padding-left", spacing},
	{"p-", "padding", spacing},
	{"mx-", "mx", spacing},
	{"my-", "my", spacing},
	{"mt-", "margin-top", spacing},
	{"mr-", "margin-right", spacing},
	{"mb-", "margin-bottom", spacing},
	{"ml-", "margin-left", spacing},
	{"m-", "margin", spacing},
	{"min-w-", "min-width", spacing},
	{"max-w-", "max-width", spacing},
	{"min-h-", "min-height", spacing},
	{"max-h-", "max-height", spacing},
	{"w-", "width", spacing},
	{"h-", "height", spacing},
	{"top-", "top", spacing},
	{"right-", "right", spacing},
	{"bottom-", "bottom", spacing},
	{"left-", "left", spacing},
	{"inset-", "inset", spacing},
	{"z-", "z-index", integer},
	{"opacity-", "opacity", percent},
	{"order-", "order", integer},
	{"justify-", "justify-content", justify},
	{"items-", "align-items", align},
	{"self-", "align-self", align},
	{"grid-cols-", "grid-template-columns", repeatTracks},
	{"grid-rows-", "grid-template-rows", repeatTracks},
	{"col-span-", "grid-column", span},
	{"row-span-", "grid-row", span},
	{"leading-", "line-height", leading},
	{"tracking-", "letter-spacing", tracking},
	{"rounded-", "border-radius", radius},
	{"border-", "border-width", borderWidth},
	{"bg-", "background-color", color},
	{"border-", "border-color", color},
	{"text-", "font-size", textSize},
	{"text-", "color", color},
}

// UtilityClassToStyle resolves one class token such as "md:hover:px-4" or
// "bg-[#ff0000]". Unknown utilities report false.
func UtilityClassToStyle(className string) (Utility, bool) {
	parts := splitVariants(className)
	if len(parts) == 0 {
		return Utility{}, false
	}
	base := parts[len(parts)-1]

	var u Utility
	for _, v := range parts[:len(parts)-1] {
		if level, ok := breakpoints[v]; ok {
			if u.Level != 0 {
				return Utility{}, false
			}
			u.Level = level
			continue
		}
		name, ok := variants[v]
		if !ok {
			return Utility{}, false
		}
		u.Variants = append(u.Variants, name)
	}

	negative := strings.HasPrefix(base, "-")
	base = strings.TrimPrefix(base, "-")

	decl, ok := resolve(base)
	if !ok {
		return Utility{}, false
	}
	if negative {
		if !strings.ContainsAny(decl.Value[:1], "0123456789.") {
			return Utility{}, false
		}
		decl.Value = "-" + decl.Value
	}
	u.Property, u.Value = decl.Property, decl.Value
	return u, true
}

// splitVariants splits on ":" outside of arbitrary value brackets.
func splitVariants(className string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(className); i++ {
		switch className[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ':':
			if depth == 0 {
				parts = append(parts, className[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, className[start:])
	for _, p := range parts {
		if p == "" {
			return nil
		}
	}
	return parts
}

func resolve(base string) (Utility, bool) {
	if u, ok := keywords[base]; ok {
		return u, true
	}
	for _, p := range prefixed {
		if !strings.HasPrefix(base, p.prefix) {
			continue
		}
		raw := base[len(p.prefix):]
		if v, ok := arbitrary(raw); ok {
			if p.property == "font-size" && !isLength(v) {
				continue
			}
			if p.property == "color" && isLength(v) {
				continue
			}
			if p.property == "border-width" && !isLength(v) {
				continue
			}
			if p.property == "border-color" && isLength(v) {
				continue
			}
			return Utility{Property: p.property, Value: v}, true
		}
		if v, ok := p.values(raw); ok {
			return Utility{Property: p.property, Value: v}, true
		}
	}
	return Utility{}, false
}

// arbitrary decodes a bracketed value: "[#ff0000]", "[calc(100%_-_1rem)]".
func arbitrary(raw string) (string, bool) {
	if len(raw) < 3 || raw[0] != '[' || raw[len(raw)-1] != ']' {
		return "", false
	}
	return strings.ReplaceAll(raw[1:len(raw)-1], "_", " "), true
}

func isLength(v string) bool {
	if v == "" {
		return false
	}
	c := v[0]
	return c >= '0' && c <= '9' || c == '.' || strings.HasPrefix(v, "calc(") || strings.HasPrefix(v, "clamp(")
}

var fractions = map[string]string{
	"1/2":  "50%",
	"1/3":  "33.333333%",
	"2/3":  "66.666667%",
	"1/4":  "25%",
	"3/4":  "75%",
	"1/5":  "20%",
	"full": "100%",
}

// spacing reads the Tailwind spacing scale: n * .25rem.
func spacing(raw string) (string, bool) {
	switch raw {
	case "px":
		return "1px", true
	case "auto":
		return "auto", true
	}
	if f, ok := fractions[raw]; ok {
		return f, true
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n < 0 {
		return "", false
	}
	if n == 0 {
		return "0", true
	}
	v := strconv.FormatFloat(n*0.25, 'f', -1, 64)
	return strings.TrimPrefix(v, "0") + "rem", true
}

func integer(raw string) (string, bool) {
	if raw == "auto" {
		return raw, true
	}
	if _, err := strconv.Atoi(raw); err != nil {
		return "", false
	}
	return raw, true
}

func percent(raw string) (string, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 100 {
		return "", false
	}
	return strconv.FormatFloat(float64(n)/100, 'f', -1, 64), true
}

func justify(raw string) (string, bool) {
	switch raw {
	case "start", "end":
		return "flex-" + raw, true
	case "center":
		return raw, true
	case "between", "around", "evenly":
		return "space-" + raw, true
	}
	return "", false
}

func align(raw string) (string, bool) {
	switch raw {
	case "start", "end":
		return "flex-" + raw, true
	case "center", "baseline", "stretch", "auto":
		return raw, true
	}
	return "", false
}

func repeatTracks(raw string) (string, bool) {
	if raw == "none" {
		return raw, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return "", false
	}
	return "repeat(" + raw + ",minmax(0,1fr))", true
}

func span(raw string) (string, bool) {
	if raw == "full" {
		return "1/-1", true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return "", false
	}
	return "span " + raw + "/span " + raw, true
}

var leadings = map[string]string{
	"none":    "1",
	"tight":   "1.25",
	"snug":    "1.375",
	"normal":  "1.5",
	"relaxed": "1.625",
	"loose":   "2",
}

func leading(raw string) (string, bool) {
	if v, ok := leadings[raw]; ok {
		return v, true
	}
	return spacing(raw)
}

var trackings = map[string]string{
	"tighter": "-.05em",
	"tight":   "-.025em",
	"normal":  "0",
	"wide":    ".025em",
	"wider":   ".05em",
	"widest":  ".1em",
}

func tracking(raw string) (string, bool) {
	v, ok := trackings[raw]
	return v, ok
}

var radii = map[string]string{
	"none": "0",
	"sm":   ".125rem",
	"md":   ".375rem",
	"lg":   ".5rem",
	"xl":   ".75rem",
	"2xl":  "1rem",
	"3xl":  "1.5rem",
	"full": "9999px",
}

func radius(raw string) (string, bool) {
	v, ok := radii[raw]
	return v, ok
}

func borderWidth(raw string) (string, bool) {
	switch raw {
	case "0", "2", "4", "8":
		if raw == "0" {
			return "0", true
		}
		return raw + "px", true
	}
	return "", false
}

var textSizes = map[string]string{
	"xs":   ".75rem",
	"sm":   ".875rem",
	"base": "1rem",
	"lg":   "1.125rem",
	"xl":   "1.25rem",
	"2xl":  "1.5rem",
	"3xl":  "1.875rem",
	"4xl":  "2.25rem",
	"5xl":  "3rem",
	"6xl":  "3.75rem",
}

func textSize(raw string) (string, bool) {
	v, ok := textSizes[raw]
	return v, ok
}

// palette is a subset of the default color palette.
var palette = map[string]string{
	"black":       "#000",
	"white":       "#FFF",
	"transparent": "transparent",
	"current":     "currentColor",
	"gray-100":    "#F3F4F6",
	"gray-200":    "#E5E7EB",
	"gray-300":    "#D1D5DB",
	"gray-400":    "#9CA3AF",
	"gray-500":    "#6B7280",
	"gray-600":    "#4B5563",
	"gray-700":    "#374151",
	"gray-800":    "#1F2937",
	"gray-900":    "#111827",
	"red-500":     "#EF4444",
	"red-600":     "#DC2626",
	"orange-500":  "#F97316",
	"yellow-500":  "#EAB308",
	"green-500":   "#22C55E",
	"green-600":   "#16A34A",
	"blue-500":    "#3B82F6",
	"blue-600":    "#2563EB",
	"indigo-500":  "#6366F1",
	"purple-500":  "#A855F7",
	"pink-500":    "#EC4899",
}

func color(raw string) (string, bool) {
	v, ok := palette[raw]
	return v, ok
}
