package css

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PropertyCategory groups related CSS properties in reports.
type PropertyCategory string

const (
	CategoryVisual     PropertyCategory = "Visual"
	CategoryLayout     PropertyCategory = "Layout"
	CategoryTypography PropertyCategory = "Typography"
	CategoryEffects    PropertyCategory = "Effects"
	CategoryCustom     PropertyCategory = "Custom"
	CategoryInternal   PropertyCategory = "Internal"
)

// propertyCategories maps CSS property names to categories
var propertyCategories = map[string]PropertyCategory{
	// Visual
	"background":                 CategoryVisual,
	"background-color":           CategoryVisual,
	"background-image":           CategoryVisual,
	"background-size":            CategoryVisual,
	"background-position":        CategoryVisual,
	"background-repeat":          CategoryVisual,
	"background-clip":            CategoryVisual,
	"background-attachment":      CategoryVisual,
	"color":                      CategoryVisual,
	"border":                     CategoryVisual,
	"border-color":               CategoryVisual,
	"border-radius":              CategoryVisual,
	"border-width":               CategoryVisual,
	"border-style":               CategoryVisual,
	"border-top":                 CategoryVisual,
	"border-right":               CategoryVisual,
	"border-bottom":              CategoryVisual,
	"border-left":                CategoryVisual,
	"border-inline":              CategoryVisual,
	"border-block":               CategoryVisual,
	"border-top-left-radius":     CategoryVisual,
	"border-top-right-radius":    CategoryVisual,
	"border-bottom-left-radius":  CategoryVisual,
	"border-bottom-right-radius": CategoryVisual,
	"box-shadow":                 CategoryVisual,
	"opacity":                    CategoryVisual,
	"outline":                    CategoryVisual,
	"outline-color":              CategoryVisual,
	"outline-width":              CategoryVisual,
	"outline-style":              CategoryVisual,
	"outline-offset":             CategoryVisual,
	"fill":                       CategoryVisual,
	"stroke":                     CategoryVisual,
	"stroke-width":               CategoryVisual,
	"accent-color":               CategoryVisual,
	"caret-color":                CategoryVisual,
	"cursor":                     CategoryVisual,
	"visibility":                 CategoryVisual,
	"pointer-events":             CategoryVisual,
	"user-select":                CategoryVisual,
	"appearance":                 CategoryVisual,
	"content":                    CategoryVisual,
	"list-style":                 CategoryVisual,

	// Layout
	"display":               CategoryLayout,
	"flex":                  CategoryLayout,
	"flex-direction":        CategoryLayout,
	"flex-wrap":             CategoryLayout,
	"flex-flow":             CategoryLayout,
	"flex-grow":             CategoryLayout,
	"flex-shrink":           CategoryLayout,
	"flex-basis":            CategoryLayout,
	"justify-content":       CategoryLayout,
	"justify-items":         CategoryLayout,
	"justify-self":          CategoryLayout,
	"align-items":           CategoryLayout,
	"align-self":            CategoryLayout,
	"align-content":         CategoryLayout,
	"place-items":           CategoryLayout,
	"place-content":         CategoryLayout,
	"place-self":            CategoryLayout,
	"order":                 CategoryLayout,
	"gap":                   CategoryLayout,
	"row-gap":               CategoryLayout,
	"column-gap":            CategoryLayout,
	"grid":                  CategoryLayout,
	"grid-template-columns": CategoryLayout,
	"grid-template-rows":    CategoryLayout,
	"grid-template-areas":   CategoryLayout,
	"grid-auto-flow":        CategoryLayout,
	"grid-auto-columns":     CategoryLayout,
	"grid-auto-rows":        CategoryLayout,
	"grid-column":           CategoryLayout,
	"grid-row":              CategoryLayout,
	"grid-area":             CategoryLayout,
	"position":              CategoryLayout,
	"inset":                 CategoryLayout,
	"inset-block":           CategoryLayout,
	"inset-block-start":     CategoryLayout,
	"inset-block-end":       CategoryLayout,
	"inset-inline":          CategoryLayout,
	"inset-inline-start":    CategoryLayout,
	"inset-inline-end":      CategoryLayout,
	"top":                   CategoryLayout,
	"right":                 CategoryLayout,
	"bottom":                CategoryLayout,
	"left":                  CategoryLayout,
	"width":                 CategoryLayout,
	"height":                CategoryLayout,
	"inline-size":           CategoryLayout,
	"block-size":            CategoryLayout,
	"min-width":             CategoryLayout,
	"min-height":            CategoryLayout,
	"min-inline-size":       CategoryLayout,
	"min-block-size":        CategoryLayout,
	"max-width":             CategoryLayout,
	"max-height":            CategoryLayout,
	"max-inline-size":       CategoryLayout,
	"max-block-size":        CategoryLayout,
	"padding":               CategoryLayout,
	"padding-top":           CategoryLayout,
	"padding-right":         CategoryLayout,
	"padding-bottom":        CategoryLayout,
	"padding-left":          CategoryLayout,
	"padding-inline":        CategoryLayout,
	"padding-inline-start":  CategoryLayout,
	"padding-inline-end":    CategoryLayout,
	"padding-block":         CategoryLayout,
	"padding-block-start":   CategoryLayout,
	"padding-block-end":     CategoryLayout,
	"margin":                CategoryLayout,
	"margin-top":            CategoryLayout,
	"margin-right":          CategoryLayout,
	"margin-bottom":         CategoryLayout,
	"margin-left":           CategoryLayout,
	"margin-inline":         CategoryLayout,
	"margin-inline-start":   CategoryLayout,
	"margin-inline-end":     CategoryLayout,
	"margin-block":          CategoryLayout,
	"margin-block-start":    CategoryLayout,
	"margin-block-end":      CategoryLayout,
	"overflow":              CategoryLayout,
	"overflow-x":            CategoryLayout,
	"overflow-y":            CategoryLayout,
	"z-index":               CategoryLayout,
	"aspect-ratio":          CategoryLayout,
	"object-fit":            CategoryLayout,
	"object-position":       CategoryLayout,
	"box-sizing":            CategoryLayout,
	"float":                 CategoryLayout,
	"clear":                 CategoryLayout,
	"vertical-align":        CategoryLayout,
	"table-layout":          CategoryLayout,
	"column-count":          CategoryLayout,
	"scroll-behavior":       CategoryLayout,
	"scroll-snap-type":      CategoryLayout,

	// Typography
	"font":                 CategoryTypography,
	"font-family":          CategoryTypography,
	"font-size":            CategoryTypography,
	"font-weight":          CategoryTypography,
	"font-style":           CategoryTypography,
	"font-variant":         CategoryTypography,
	"font-variant-numeric": CategoryTypography,
	"line-height":          CategoryTypography,
	"letter-spacing":       CategoryTypography,
	"text-align":           CategoryTypography,
	"text-decoration":      CategoryTypography,
	"text-transform":       CategoryTypography,
	"text-overflow":        CategoryTypography,
	"text-indent":          CategoryTypography,
	"text-shadow":          CategoryTypography,
	"white-space":          CategoryTypography,
	"word-break":           CategoryTypography,
	"word-wrap":            CategoryTypography,
	"overflow-wrap":        CategoryTypography,
	"hyphens":              CategoryTypography,

	// Effects
	"transition":                 CategoryEffects,
	"transition-property":        CategoryEffects,
	"transition-duration":        CategoryEffects,
	"transition-timing-function": CategoryEffects,
	"transition-delay":           CategoryEffects,
	"transform":                  CategoryEffects,
	"transform-origin":           CategoryEffects,
	"translate":                  CategoryEffects,
	"rotate":                     CategoryEffects,
	"scale":                      CategoryEffects,
	"animation":                  CategoryEffects,
	"animation-name":             CategoryEffects,
	"animation-duration":         CategoryEffects,
	"animation-timing-function":  CategoryEffects,
	"animation-delay":            CategoryEffects,
	"animation-iteration-count":  CategoryEffects,
	"animation-direction":        CategoryEffects,
	"animation-fill-mode":        CategoryEffects,
	"animation-play-state":       CategoryEffects,
	"filter":                     CategoryEffects,
	"backdrop-filter":            CategoryEffects,
	"mix-blend-mode":             CategoryEffects,
	"clip-path":                  CategoryEffects,
	"mask":                       CategoryEffects,
	"will-change":                CategoryEffects,
}

// knownPrefixes catch properties missing from propertyCategories.
var knownPrefixes = []string{
	"align-", "animation-", "background-", "border-", "column-", "flex-", "font-", "grid-", "justify-",
	"list-", "margin-", "mask-", "outline-", "overflow-", "padding-", "place-", "scroll-", "text-", "transition-",
}

// CategorizeProperty determines the category of a CSS property
func CategorizeProperty(name string) PropertyCategory {
	if cat, exists := propertyCategories[name]; exists {
		return cat
	}
	if strings.HasPrefix(name, "--") {
		return CategoryCustom
	}
	if isVendorProperty(name) {
		return CategoryInternal
	}
	switch {
	case strings.HasPrefix(name, "font-"), strings.HasPrefix(name, "text-"):
		return CategoryTypography
	case strings.HasPrefix(name, "border-"), strings.HasPrefix(name, "background-"), strings.HasPrefix(name, "outline-"):
		return CategoryVisual
	case strings.HasPrefix(name, "animation-"), strings.HasPrefix(name, "transition-"), strings.HasPrefix(name, "mask-"):
		return CategoryEffects
	}
	return CategoryLayout
}

// IsCSSProperty reports whether a kebab-case name looks like a CSS property.
func IsCSSProperty(name string) bool {
	if _, ok := propertyCategories[name]; ok {
		return true
	}
	if strings.HasPrefix(name, "--") || isVendorProperty(name) {
		return true
	}
	for _, p := range knownPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func isVendorProperty(name string) bool {
	return strings.HasPrefix(name, "-webkit-") ||
		strings.HasPrefix(name, "-moz-") ||
		strings.HasPrefix(name, "-ms-") ||
		strings.HasPrefix(name, "-o-")
}

// propertyAliases are shorthand props expanding to one or more properties.
var propertyAliases = map[string][]string{
	"bg":                 {"background"},
	"bgAttachment":       {"background-attachment"},
	"bgClip":             {"background-clip"},
	"bgColor":            {"background-color"},
	"bgImage":            {"background-image"},
	"bgImg":              {"background-image"},
	"bgPosition":         {"background-position"},
	"bgRepeat":           {"background-repeat"},
	"bgSize":             {"background-size"},
	"m":                  {"margin"},
	"mt":                 {"margin-top"},
	"mr":                 {"margin-right"},
	"mb":                 {"margin-bottom"},
	"ml":                 {"margin-left"},
	"mx":                 {"margin-left", "margin-right"},
	"my":                 {"margin-top", "margin-bottom"},
	"p":                  {"padding"},
	"pt":                 {"padding-top"},
	"pr":                 {"padding-right"},
	"pb":                 {"padding-bottom"},
	"pl":                 {"padding-left"},
	"px":                 {"padding-left", "padding-right"},
	"py":                 {"padding-top", "padding-bottom"},
	"w":                  {"width"},
	"h":                  {"height"},
	"minW":               {"min-width"},
	"maxW":               {"max-width"},
	"minH":               {"min-height"},
	"maxH":               {"max-height"},
	"boxSize":            {"width", "height"},
	"pos":                {"position"},
	"flexDir":            {"flex-direction"},
	"borderTopRadius":    {"border-top-left-radius", "border-top-right-radius"},
	"borderBottomRadius": {"border-bottom-left-radius", "border-bottom-right-radius"},
	"borderLeftRadius":   {"border-top-left-radius", "border-bottom-left-radius"},
	"borderRightRadius":  {"border-top-right-radius", "border-bottom-right-radius"},
}

// ExpandProperty maps a JSX style prop name to the CSS properties it sets.
func ExpandProperty(name string) []string {
	if props, ok := propertyAliases[name]; ok {
		return props
	}
	return []string{ToKebabCase(name)}
}

// IsStyleProp reports whether a JSX prop of a style component is style input.
func IsStyleProp(name string) bool {
	if IsSpecialProp(name) {
		return false
	}
	if name == "selectors" || len(name) > 1 && (name[0] == '_' || name[0] == '@') {
		return true
	}
	if _, ok := propertyAliases[name]; ok {
		return true
	}
	if _, ok := enumProperties[name]; ok {
		return true
	}
	return name == "typography" || IsCSSProperty(ToKebabCase(name))
}

// IsSpecialProp reports props that never carry styles: React internals,
// event handlers, data and aria attributes, and the class/style attributes
// merged by the rewriter.
func IsSpecialProp(name string) bool {
	switch name {
	case "ref", "key", "children", "style", "className", "class", "dangerouslySetInnerHTML":
		return true
	}
	if strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-") {
		return true
	}
	return len(name) > 2 && strings.HasPrefix(name, "on") && name[2] >= 'A' && name[2] <= 'Z'
}

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// enumProperties expand one keyword into several declarations.
var enumProperties = map[string]map[string][]Declaration{
	"positioning": {
		"top":          {{"top", "0"}, {"left", "0"}, {"right", "0"}},
		"bottom":       {{"bottom", "0"}, {"left", "0"}, {"right", "0"}},
		"left":         {{"top", "0"}, {"bottom", "0"}, {"left", "0"}},
		"right":        {{"top", "0"}, {"bottom", "0"}, {"right", "0"}},
		"top-left":     {{"top", "0"}, {"left", "0"}},
		"top-right":    {{"top", "0"}, {"right", "0"}},
		"bottom-left":  {{"bottom", "0"}, {"left", "0"}},
		"bottom-right": {{"bottom", "0"}, {"right", "0"}},
	},
}

// EnumProperty returns the keyword table of an enum prop.
func EnumProperty(name string) (map[string][]Declaration, bool) {
	m, ok := enumProperties[name]
	return m, ok
}

// EnumKeys returns the keywords of an enum prop in sorted order.
func EnumKeys(name string) []string {
	m := enumProperties[name]
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var unitlessProperties = map[string]bool{
	"opacity":                   true,
	"flex":                      true,
	"flex-grow":                 true,
	"flex-shrink":               true,
	"z-index":                   true,
	"line-height":               true,
	"font-weight":               true,
	"order":                     true,
	"zoom":                      true,
	"aspect-ratio":              true,
	"animation-iteration-count": true,
	"scale":                     true,
	"column-count":              true,
	"orphans":                   true,
	"widows":                    true,
	"tab-size":                  true,
	"fill-opacity":              true,
	"stroke-opacity":            true,
	"grid-column":               true,
	"grid-row":                  true,
	"grid-area":                 true,
}

// spacingProperties take numbers in 4px steps.
var spacingProperties = map[string]bool{
	"margin":               true,
	"margin-top":           true,
	"margin-right":         true,
	"margin-bottom":        true,
	"margin-left":          true,
	"margin-inline":        true,
	"margin-inline-start":  true,
	"margin-inline-end":    true,
	"margin-block":         true,
	"margin-block-start":   true,
	"margin-block-end":     true,
	"padding":              true,
	"padding-top":          true,
	"padding-right":        true,
	"padding-bottom":       true,
	"padding-left":         true,
	"padding-inline":       true,
	"padding-inline-start": true,
	"padding-inline-end":   true,
	"padding-block":        true,
	"padding-block-start":  true,
	"padding-block-end":    true,
	"gap":                  true,
	"row-gap":              true,
	"column-gap":           true,
}

// ConvertNumber renders a numeric literal for property: spacing props count
// in 4px steps, unitless props keep the number, everything else gets px.
func ConvertNumber(property, literal string) string {
	if strings.HasPrefix(property, "--") || unitlessProperties[property] {
		return literal
	}
	n, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return literal
	}
	if spacingProperties[property] {
		n *= 4
	}
	return strconv.FormatFloat(n, 'f', -1, 64) + "px"
}

// ConvertPixels renders a numeric literal the way plain CSS-in-JS objects
// do: unitless props keep the number, everything else gets px.
func ConvertPixels(property, literal string) string {
	if strings.HasPrefix(property, "--") || unitlessProperties[property] {
		return literal
	}
	if _, err := strconv.ParseFloat(literal, 64); err != nil {
		return literal
	}
	return literal + "px"
}

var tokenRef = regexp.MustCompile(`\$([A-Za-z_][\w.-]*)`)

// ConvertString expands $token references to theme variables:
// "1px solid $border" -> "1px solid var(--border)".
func ConvertString(value string) string {
	if !strings.Contains(value, "$") {
		return value
	}
	return tokenRef.ReplaceAllStringFunc(value, func(m string) string {
		return "var(--" + strings.ReplaceAll(m[1:], ".", "-") + ")"
	})
}
