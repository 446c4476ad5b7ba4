package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyCategorization(t *testing.T) {
	tests := []struct {
		property string
		expected PropertyCategory
	}{
		{"background", CategoryVisual},
		{"color", CategoryVisual},
		{"border-radius", CategoryVisual},
		{"display", CategoryLayout},
		{"flex-direction", CategoryLayout},
		{"padding", CategoryLayout},
		{"margin-top", CategoryLayout},
		{"font-size", CategoryTypography},
		{"line-height", CategoryTypography},
		{"transition", CategoryEffects},
		{"transform", CategoryEffects},
		{"-webkit-font-smoothing", CategoryInternal},
		{"grid-template-columns", CategoryLayout},
		{"border-top-color", CategoryVisual},
		{"--brand", CategoryCustom},
		{"text-underline-offset", CategoryTypography},
	}

	for _, tt := range tests {
		t.Run(tt.property, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeProperty(tt.property))
		})
	}
}

func TestExpandProperty(t *testing.T) {
	assert.Equal(t, []string{"background"}, ExpandProperty("bg"))
	assert.Equal(t, []string{"padding-left", "padding-right"}, ExpandProperty("px"))
	assert.Equal(t, []string{"width", "height"}, ExpandProperty("boxSize"))
	assert.Equal(t, []string{"background-color"}, ExpandProperty("backgroundColor"))
	assert.Equal(t, []string{"--brand"}, ExpandProperty("--brand"))
}

func TestIsStyleProp(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"bg", true},
		{"p", true},
		{"color", true},
		{"backgroundColor", true},
		{"WebkitLineClamp", true},
		{"typography", true},
		{"positioning", true},
		{"_hover", true},
		{"selectors", true},
		{"@media (min-width: 10px)", true},
		{"_", false},
		{"src", false},
		{"as", false},
		{"id", false},
		{"onClick", false},
		{"data-testid", false},
		{"aria-label", false},
		{"className", false},
		{"style", false},
		{"ref", false},
		{"key", false},
		{"children", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStyleProp(tt.name))
		})
	}
}

func TestConvertNumber(t *testing.T) {
	tests := []struct {
		property string
		literal  string
		want     string
	}{
		{"padding", "4", "16px"},
		{"padding", "0.5", "2px"},
		{"gap", "2", "8px"},
		{"width", "10", "10px"},
		{"opacity", "0.5", "0.5"},
		{"z-index", "10", "10"},
		{"--size", "3", "3"},
		{"width", "1e", "1e"},
	}

	for _, tt := range tests {
		t.Run(tt.property+"="+tt.literal, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertNumber(tt.property, tt.literal))
		})
	}
}

func TestConvertPixels(t *testing.T) {
	assert.Equal(t, "10px", ConvertPixels("padding", "10"))
	assert.Equal(t, "1.5", ConvertPixels("line-height", "1.5"))
	assert.Equal(t, "2", ConvertPixels("--columns", "2"))
	assert.Equal(t, "auto", ConvertPixels("width", "auto"))
}

func TestConvertString(t *testing.T) {
	assert.Equal(t, "var(--primary)", ConvertString("$primary"))
	assert.Equal(t, "1px solid var(--border-strong)", ConvertString("1px solid $border.strong"))
	assert.Equal(t, "red", ConvertString("red"))
}

func TestEnumProperty(t *testing.T) {
	m, ok := EnumProperty("positioning")
	assert.True(t, ok)
	assert.Equal(t, []Declaration{{"top", "0"}, {"left", "0"}}, m["top-left"])
	assert.Contains(t, EnumKeys("positioning"), "bottom-right")

	_, ok = EnumProperty("color")
	assert.False(t, ok)
}
