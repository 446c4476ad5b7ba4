package extractor

import (
	"github.com/yacobolo/atomcss/internal/css"
)

// component is a layout component exported by the style package.
type component struct {
	tag   string
	basic []css.Declaration
}

var components = map[string]component{
	"Box": {tag: "div"},
	"Flex": {tag: "div", basic: []css.Declaration{
		{Property: "display", Value: "flex"},
	}},
	"VStack": {tag: "div", basic: []css.Declaration{
		{Property: "display", Value: "flex"},
		{Property: "flex-direction", Value: "column"},
	}},
	"Center": {tag: "div", basic: []css.Declaration{
		{Property: "display", Value: "flex"},
		{Property: "justify-content", Value: "center"},
		{Property: "align-items", Value: "center"},
	}},
	"Grid": {tag: "div", basic: []css.Declaration{
		{Property: "display", Value: "grid"},
	}},
	"Text":   {tag: "span"},
	"Button": {tag: "button"},
	"Input":  {tag: "input"},
	"Image":  {tag: "img"},
}

// lookupComponent returns the component exported as name.
func lookupComponent(name string) (component, bool) {
	c, ok := components[name]
	return c, ok
}

// basicProps returns the default styles of c. They sort before user
// styles and share the base bucket across files.
func (c component) basicProps() []StyleProp {
	props := make([]StyleProp, 0, len(c.basic))
	for _, d := range c.basic {
		props = append(props, StaticProp{Value: StaticStyle{
			Property:   d.Property,
			Value:      css.OptimizeValue(d.Value),
			Basic:      true,
			StyleOrder: uint8Ptr(0),
		}})
	}
	return props
}
