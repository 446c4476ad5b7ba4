package tailwind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtilityClassToStyle(t *testing.T) {
	tests := []struct {
		className string
		want      Utility
	}{
		{"flex", Utility{Property: "display", Value: "flex"}},
		{"hidden", Utility{Property: "display", Value: "none"}},
		{"p-4", Utility{Property: "padding", Value: "1rem"}},
		{"px-2", Utility{Property: "px", Value: ".5rem"}},
		{"mt-0", Utility{Property: "margin-top", Value: "0"}},
		{"-mt-4", Utility{Property: "margin-top", Value: "-1rem"}},
		{"w-1/2", Utility{Property: "width", Value: "50%"}},
		{"w-full", Utility{Property: "width", Value: "100%"}},
		{"min-w-0", Utility{Property: "min-width", Value: "0"}},
		{"gap-x-3", Utility{Property: "column-gap", Value: ".75rem"}},
		{"z-10", Utility{Property: "z-index", Value: "10"}},
		{"opacity-50", Utility{Property: "opacity", Value: "0.5"}},
		{"justify-between", Utility{Property: "justify-content", Value: "space-between"}},
		{"items-center", Utility{Property: "align-items", Value: "center"}},
		{"grid-cols-3", Utility{Property: "grid-template-columns", Value: "repeat(3,minmax(0,1fr))"}},
		{"text-lg", Utility{Property: "font-size", Value: "1.125rem"}},
		{"text-gray-500", Utility{Property: "color", Value: "#6B7280"}},
		{"text-[14px]", Utility{Property: "font-size", Value: "14px"}},
		{"text-[#f00]", Utility{Property: "color", Value: "#f00"}},
		{"bg-[#ff0000]", Utility{Property: "background-color", Value: "#ff0000"}},
		{"bg-white", Utility{Property: "background-color", Value: "#FFF"}},
		{"border", Utility{Property: "border-width", Value: "1px"}},
		{"border-2", Utility{Property: "border-width", Value: "2px"}},
		{"border-red-500", Utility{Property: "border-color", Value: "#EF4444"}},
		{"rounded-lg", Utility{Property: "border-radius", Value: ".5rem"}},
		{"w-[calc(100%_-_1rem)]", Utility{Property: "width", Value: "calc(100% - 1rem)"}},
		{"hover:bg-black", Utility{Property: "background-color", Value: "#000", Variants: []string{"hover"}}},
		{"md:p-2", Utility{Property: "padding", Value: ".5rem", Level: 2}},
		{"2xl:hidden", Utility{Property: "display", Value: "none", Level: 5}},
		{"sm:group-hover:underline", Utility{Property: "text-decoration-line", Value: "underline", Level: 1, Variants: []string{"groupHover"}}},
		{"dark:text-white", Utility{Property: "color", Value: "#FFF", Variants: []string{"themeDark"}}},
	}

	for _, tt := range tests {
		t.Run(tt.className, func(t *testing.T) {
			got, ok := UtilityClassToStyle(tt.className)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUtilityClassToStyleUnknown(t *testing.T) {
	tests := []string{
		"",
		"my-button",
		"p-huge",
		"-flex",
		"-mx-auto",
		"weird:p-4",
		"sm:md:p-4",
		"hover:",
		"text-unknown",
		"opacity-150",
	}

	for _, className := range tests {
		t.Run(className, func(t *testing.T) {
			_, ok := UtilityClassToStyle(className)
			assert.False(t, ok)
		})
	}
}
