package vanilla

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNames struct{}

func (testNames) VarName(local string) string       { return "--" + local }
func (testNames) KeyframesName(local string) string { return "k-" + local }

func execute(t *testing.T, filename, src string) *CollectedStyles {
	t.Helper()
	out, err := NewEvaluator(testNames{}).Execute(context.Background(), filename, []byte(src))
	require.NoError(t, err)
	return out
}

func TestIsStyleFile(t *testing.T) {
	assert.True(t, IsStyleFile("src/button.css.ts"))
	assert.True(t, IsStyleFile("theme.css.js"))
	assert.False(t, IsStyleFile("button.ts"))
	assert.False(t, IsStyleFile("styles.css"))
}

func TestExecuteStyle(t *testing.T) {
	out := execute(t, "button.css.ts", `
import { style } from "@vanilla-extract/css";

const gap = 4;

export const base = style({
  padding: gap * 2,
  lineHeight: 1.5,
  ":hover": { color: "red" },
});

export const primary = style([base, { background: `+"`${\"blue\"}`"+` }]);
`)

	require.Contains(t, out.Styles, "base")
	assert.JSONEq(t, `{"padding":"8px","lineHeight":"1.5",":hover":{"color":"red"}}`, string(out.Styles["base"].JSON))
	assert.True(t, out.Styles["base"].Exported)

	primary := out.Styles["primary"]
	assert.Equal(t, []string{"base"}, primary.Bases)
	assert.JSONEq(t, `{"background":"blue"}`, string(primary.JSON))

	assert.Equal(t, []string{"gap", "base", "primary"}, out.Order)
	assert.JSONEq(t, `4`, string(out.Consts["gap"].JSON))
	assert.False(t, out.Consts["gap"].Exported)
}

func TestExecuteVariantsKeyframesVars(t *testing.T) {
	out := execute(t, "theme.css.ts", `
import { styleVariants, keyframes, createVar, globalStyle, style } from "@vanilla-extract/css";

export const accent = createVar();

export const fade = keyframes({
  from: { opacity: 0 },
  to: { opacity: 1 },
});

export const size = styleVariants({
  small: { fontSize: 12 },
  large: { fontSize: 20, [accent]: "red" },
});

export const box = style({ animationName: fade, color: accent });

globalStyle("body", { margin: 0 });
`)

	assert.Equal(t, VarEntry{Name: "--accent", Exported: true}, out.Vars["accent"])

	fade := out.Keyframes["fade"]
	assert.Equal(t, "k-fade", fade.Name)
	require.Len(t, fade.Frames, 2)
	assert.Equal(t, "from", fade.Frames[0].Offset)
	assert.JSONEq(t, `{"opacity":"0"}`, string(fade.Frames[0].JSON))

	size := out.Styles["size"]
	require.Len(t, size.Variants, 2)
	assert.Equal(t, "small", size.Variants[0].Key)
	assert.JSONEq(t, `{"fontSize":"12px"}`, string(size.Variants[0].JSON))
	assert.JSONEq(t, `{"fontSize":"20px","--accent":"red"}`, string(size.Variants[1].JSON))

	assert.JSONEq(t, `{"animationName":"k-fade","color":"var(--accent)"}`, string(out.Styles["box"].JSON))

	require.Len(t, out.GlobalStyles, 1)
	assert.Equal(t, "body", out.GlobalStyles[0].Selector)
	assert.JSONEq(t, `{"margin":"0px"}`, string(out.GlobalStyles[0].JSON))
}

func TestExecuteUnsupported(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown identifier", `import { style } from "@vanilla-extract/css"; export const a = style({ color: theme.color });`},
		{"function value", `import { style } from "@vanilla-extract/css"; export const a = style({ color: () => "red" });`},
		{"non-object style", `import { style } from "@vanilla-extract/css"; export const a = style("red");`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvaluator(testNames{}).Execute(context.Background(), "a.css.ts", []byte(tt.src))
			require.ErrorIs(t, err, ErrUnsupported)
		})
	}
}

func TestFallbackVar(t *testing.T) {
	assert.Equal(t, "var(--a, 10px)", fallbackVar([]string{"var(--a)", "10px"}))
	assert.Equal(t, "var(--a, var(--b, red))", fallbackVar([]string{"var(--a)", "var(--b)", "red"}))
}

func TestObjectKeepsKeyOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", 1.0)
	o.Set("a", "x")
	o.Set("b", 2.0)

	raw, err := o.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":"x"}`, string(raw))
	assert.Equal(t, []string{"b", "a"}, o.Keys())
}
