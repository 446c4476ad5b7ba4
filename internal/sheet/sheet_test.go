package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/extractor"
)

func order(v uint8) *uint8 { return &v }

func TestRenderOrdersRules(t *testing.T) {
	s := New(css.NewContext())
	hover := css.SelectorFrom("hover")
	s.Add("app.tsx",
		extractor.StaticStyle{Property: "padding", Value: "4px"},
		extractor.StaticStyle{Property: "padding", Value: "8px", Level: 1},
		extractor.StaticStyle{Property: "color", Value: "red", Selector: &hover},
		extractor.StaticStyle{Property: "padding", Value: "4px"},
	)

	assert.Equal(t, ".a-a{padding:4px}\n"+
		".a-c:hover{color:red}\n"+
		"@media (min-width:480px){.a-b{padding:8px}}\n", s.Render("app.tsx"))
}

func TestRenderBaseStylesGoToSharedSheet(t *testing.T) {
	s := New(css.NewContext())
	s.Add("app.tsx",
		extractor.StaticStyle{Property: "display", Value: "flex", Basic: true, StyleOrder: order(0)},
		extractor.StaticStyle{Property: "color", Value: "red"},
	)
	s.Add("other.tsx",
		extractor.StaticStyle{Property: "display", Value: "flex", Basic: true, StyleOrder: order(0)},
	)

	assert.Equal(t, []string{Shared, "app.tsx"}, s.Files())
	assert.Equal(t, ".a{display:flex}\n", s.Render(Shared))
	assert.Equal(t, ".a-a{color:red}\n", s.Render("app.tsx"))
}

func TestRenderDynamicAndAtRules(t *testing.T) {
	s := New(css.NewContext(), WithBreakpoints([]int{0, 600}))
	printOnly := css.Media("print", "")
	s.Add("app.tsx",
		extractor.DynamicStyle{Property: "color", Identifier: "c"},
		extractor.StaticStyle{Property: "display", Value: "none", Selector: &printOnly},
		extractor.StaticStyle{Property: "width", Value: "50%", Level: 1},
	)

	assert.Equal(t, ".a-a{color:var(--a)}\n"+
		"@media print{.a-b{display:none}}\n"+
		"@media (min-width:600px){.a-c{width:50%}}\n", s.Render("app.tsx"))
}

func TestRenderGlobalsKeyframesAndRawCSS(t *testing.T) {
	s := New(css.NewContext())
	body := css.Global("body", "global.ts")
	s.Add("global.ts",
		extractor.CSSStyle{CSS: "html{color:red}", File: "global.ts"},
		extractor.KeyframesStyle{Name: "k-a", Steps: []extractor.KeyframeStep{
			{Offset: "from", Styles: []extractor.StaticStyle{{Property: "opacity", Value: "0"}}},
			{Offset: "to", Styles: []extractor.StaticStyle{{Property: "opacity", Value: "1"}}},
		}},
		extractor.StaticStyle{Property: "margin", Value: "0", Selector: &body},
		extractor.TypographyStyle{Name: "heading"},
	)

	assert.Equal(t, "body{margin:0}\n"+
		"@keyframes k-a{from{opacity:0}to{opacity:1}}\n"+
		"html{color:red}\n", s.Render("global.ts"))
}

func TestRemove(t *testing.T) {
	s := New(css.NewContext())
	s.Add("app.tsx", extractor.StaticStyle{Property: "color", Value: "red"})
	s.Remove("app.tsx")

	assert.Empty(t, s.Files())
	assert.Empty(t, s.Render("app.tsx"))
}
