package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/atomcss/internal/css"
)

func extractFile(t *testing.T, filename, code string, opts Options) *Output {
	t.Helper()
	out, err := Extract(css.NewContext(), filename, code, opts)
	require.NoError(t, err)
	return out
}

const boxImport = `import { Box } from "@atomcss/react";` + "\n"

func TestExtractRewritesComponents(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "static props",
			code: boxImport + "\nexport const App = () => <Box bg=\"red\" p={4} />;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "\nexport const App = () => <div className=\"a-a a-b\" />;",
		},
		{
			name: "responsive array",
			code: boxImport + "export const App = () => <Box p={[1, 2]} />;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "export const App = () => <div className=\"a-a a-b\" />;",
		},
		{
			name: "conditional value",
			code: boxImport + "export const App = ({ on }) => <Box bg={on ? \"red\" : \"blue\"} />;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "export const App = ({ on }) => <div className={on ? \"a-a\" : \"a-b\"} />;",
		},
		{
			name: "equal branches collapse",
			code: boxImport + "export const App = ({ a, b }) => <Box margin={a === b ? \"4px\" : \"4px\"} />;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "export const App = ({ a, b }) => <div className=\"a-a\" />;",
		},
		{
			name: "dynamic value",
			code: boxImport + "export const App = ({ c }) => <Box color={c} />;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "export const App = ({ c }) => <div className=\"a-a\" style={{ \"--a\": c }} />;",
		},
		{
			name: "member lookup",
			code: boxImport + "export const App = ({ i }) => <Box color={[\"red\", \"blue\"][i]} />;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "export const App = ({ i }) => <div className={({ \"0\": \"a-a\", \"1\": \"a-b\" })[i] ?? \"\"} />;",
		},
		{
			name: "tag override",
			code: boxImport + "export const App = () => <Box as=\"section\" p={1}>hi</Box>;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "export const App = () => <section className=\"a-a\">hi</section>;",
		},
		{
			name: "other attributes kept",
			code: boxImport + "export const App = () => <Box id=\"x\" onClick={go} p={1} />;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "export const App = () => <div id=\"x\" onClick={go} className=\"a-a\" />;",
		},
		{
			name: "existing style spread first",
			code: boxImport + "export const App = ({ c, s }) => <Box style={s} color={c} />;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "export const App = ({ c, s }) => <div className=\"a-a\" style={{ ...s, \"--a\": c }} />;",
		},
		{
			name: "directive prologue kept first",
			code: "\"use client\";\n" + boxImport + "export const App = () => <Box p={1} />;",
			want: "\"use client\";\n" + `import "@atomcss/react/css/atomcss-0.css";` + "\n" + boxImport + "export const App = () => <div className=\"a-a\" />;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := extractFile(t, "app.tsx", tt.code, Options{})
			assert.Equal(t, tt.want, out.Code)
			assert.Equal(t, "atomcss-0.css", out.CSSFile)
			assert.Empty(t, out.Issues)
		})
	}
}

func TestExtractBasicStylesUseSharedSheet(t *testing.T) {
	code := `import { Flex } from "@atomcss/react";` + "\n" +
		`export const App = () => <Flex className="card" p={1} />;`

	out := extractFile(t, "app.tsx", code, Options{})

	assert.Equal(t, `import "@atomcss/react/css/atomcss.css";`+"\n"+
		`import "@atomcss/react/css/atomcss-0.css";`+"\n"+
		`import { Flex } from "@atomcss/react";`+"\n"+
		`export const App = () => <div className="a a-a card" />;`, out.Code)

	require.Len(t, out.Styles, 2)
	basic, ok := out.Styles[0].(StaticStyle)
	require.True(t, ok)
	assert.True(t, basic.Basic)
	assert.Equal(t, "display", basic.Property)
	assert.Equal(t, "flex", basic.Value)
}

func TestExtractSingleCSS(t *testing.T) {
	code := boxImport + "export const App = () => <Box p={1} />;"

	out := extractFile(t, "app.tsx", code, Options{SingleCSS: true})

	assert.Equal(t, `import "@atomcss/react/css/atomcss.css";`+"\n"+boxImport+
		"export const App = () => <div className=\"a\" />;", out.Code)
	assert.Equal(t, SharedCSSFile, out.CSSFile)
}

func TestExtractKeepsUnextractableProps(t *testing.T) {
	code := boxImport + "export const App = () => <Box bg={() => \"red\"} />;"

	out := extractFile(t, "app.tsx", code, Options{})

	assert.Equal(t, boxImport+"export const App = () => <div bg={() => \"red\"} />;", out.Code)
	assert.Empty(t, out.Styles)
	assert.Empty(t, out.CSSFile)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "bg", out.Issues[0].Prop)
	assert.Equal(t, 2, out.Issues[0].Line)
}

func TestExtractCSSCall(t *testing.T) {
	code := `import { css } from "@atomcss/react";` + "\n" +
		`export const cls = css({ color: "red", _hover: { color: "blue" } });`

	out := extractFile(t, "styles.ts", code, Options{})

	assert.Contains(t, out.Code, `export const cls = "a-a a-b";`)
	require.Len(t, out.Styles, 2)
	hover := out.Styles[1].(StaticStyle)
	require.NotNil(t, hover.Selector)
	assert.Equal(t, "&:hover", hover.Selector.Value)
}

func TestExtractCSSCallWithRuntimeValue(t *testing.T) {
	code := `import { css } from "@atomcss/react";` + "\n" +
		`export const cls = (c) => css({ color: c });`

	out := extractFile(t, "styles.ts", code, Options{})

	assert.Equal(t, code, out.Code)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "css", out.Issues[0].Prop)
}

func TestExtractKeyframes(t *testing.T) {
	code := `import { Box, keyframes } from "@atomcss/react";` + "\n" +
		`export const App = () => <Box animationName={keyframes({ from: { opacity: 0 }, to: { opacity: 1 } })} />;`

	out := extractFile(t, "app.tsx", code, Options{})

	assert.Contains(t, out.Code, `<div className="a-b" />`)
	var kf *KeyframesStyle
	for _, v := range out.Styles {
		if k, ok := v.(KeyframesStyle); ok {
			kf = &k
		}
	}
	require.NotNil(t, kf)
	assert.Equal(t, "k-a-a", kf.Name)
	require.Len(t, kf.Steps, 2)
	assert.Equal(t, "from", kf.Steps[0].Offset)
	assert.Equal(t, "opacity", kf.Steps[0].Styles[0].Property)
	assert.Equal(t, "0", kf.Steps[0].Styles[0].Value)
}

func TestExtractGlobalCss(t *testing.T) {
	code := `import { globalCss } from "@atomcss/react";` + "\n" +
		`globalCss({ body: { margin: 0 } });` + "\n" +
		`globalCss("html { color: red; }");`

	out := extractFile(t, "global.ts", code, Options{})

	assert.NotContains(t, out.Code, "globalCss(")
	require.Len(t, out.Styles, 2)

	margin := out.Styles[0].(StaticStyle)
	assert.Equal(t, "margin", margin.Property)
	assert.Equal(t, "0", margin.Value)
	require.NotNil(t, margin.Selector)
	assert.Equal(t, css.Global("body", "global.ts"), *margin.Selector)

	assert.Equal(t, CSSStyle{CSS: "html { color: red; }", File: "global.ts"}, out.Styles[1])
}

func TestExtractStyled(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		code     string
		want     string
	}{
		{
			name:     "tagged template in tsx",
			filename: "title.tsx",
			code:     `import { styled } from "@atomcss/react";` + "\nexport const Title = styled.h1`color: red;`;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + `import { styled } from "@atomcss/react";` +
				"\nexport const Title = ((props) => <h1 {...props} className={[\"a-a\", props.className].filter(Boolean).join(\" \")} />);",
		},
		{
			name:     "object call in ts",
			filename: "title.ts",
			code:     `import { styled } from "@atomcss/react";` + "\nexport const Title = styled(\"h1\")({ color: \"red\" });",
			want: `import { createElement } from "react";` + "\n" + `import "@atomcss/react/css/atomcss-0.css";` + "\n" +
				`import { styled } from "@atomcss/react";` +
				"\nexport const Title = ((props) => createElement(\"h1\", { ...props, className: [\"a-a\", props.className].filter(Boolean).join(\" \") }));",
		},
		{
			name:     "aliased default import",
			filename: "title.tsx",
			code:     `import styled from "@emotion/styled";` + "\nexport const Title = styled.div`color: red;`;",
			want: `import "@atomcss/react/css/atomcss-0.css";` + "\n" + `import { styled } from "@atomcss/react";` +
				"\nexport const Title = ((props) => <div {...props} className={[\"a-a\", props.className].filter(Boolean).join(\" \")} />);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := extractFile(t, tt.filename, tt.code, Options{ImportAliases: map[string]string{"@emotion/styled": "styled"}})
			assert.Equal(t, tt.want, out.Code)
		})
	}
}

func TestExtractTailwind(t *testing.T) {
	code := `export const App = () => <div className="p-4 custom" />;`

	out := extractFile(t, "app.tsx", code, Options{Tailwind: true})

	assert.Equal(t, `import "@atomcss/react/css/atomcss-0.css";`+"\n"+
		`export const App = () => <div className="a-a custom" />;`, out.Code)
	require.Len(t, out.Styles, 1)
	assert.Equal(t, StaticStyle{Property: "padding", Value: "1rem"}, out.Styles[0])
}

func TestExtractSkipsUnrelatedFiles(t *testing.T) {
	code := `import React from "react";` + "\nexport const App = () => <div p={1} />;"

	out := extractFile(t, "app.tsx", code, Options{})

	assert.Equal(t, code, out.Code)
	assert.Empty(t, out.Styles)
}

func TestExtractVanillaStyleFile(t *testing.T) {
	code := `import { style } from "@vanilla-extract/css";` + "\n" +
		`export const root = style({ color: "red" });`

	out := extractFile(t, "button.css.ts", code, Options{})

	assert.Equal(t, `import "@atomcss/react/css/atomcss-0.css";`+"\n"+
		`export const root = "a-a";`+"\n", out.Code)
	assert.Equal(t, "atomcss-0.css", out.CSSFile)
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract(css.NewContext(), "styles.scss", "a {}", Options{})
	require.ErrorIs(t, err, ErrUnknownExtension)

	_, err = Extract(css.NewContext(), "app.tsx", boxImport+"export const App = () => <Box p={1} ;", Options{})
	require.ErrorIs(t, err, ErrParse)
}

func TestExtractSharesContextAcrossFiles(t *testing.T) {
	ctx := css.NewContext()
	code := boxImport + "export const App = () => <Box p={1} />;"

	first, err := Extract(ctx, "a.tsx", code, Options{})
	require.NoError(t, err)
	second, err := Extract(ctx, "b.tsx", code, Options{})
	require.NoError(t, err)

	assert.Equal(t, "atomcss-0.css", first.CSSFile)
	assert.Equal(t, "atomcss-1.css", second.CSSFile)
	assert.True(t, strings.Contains(second.Code, `className="b-a"`))
}

func TestSortedStyles(t *testing.T) {
	out := &Output{Styles: []StyleValue{
		StaticStyle{Property: "padding", Value: "4px"},
		StaticStyle{Property: "color", Value: "red"},
		StaticStyle{Property: "padding", Value: "4px"},
		StaticStyle{Property: "display", Value: "flex", Basic: true},
	}}

	assert.Equal(t, []StyleValue{
		StaticStyle{Property: "display", Value: "flex", Basic: true},
		StaticStyle{Property: "color", Value: "red"},
		StaticStyle{Property: "padding", Value: "4px"},
	}, out.SortedStyles())
	assert.Len(t, out.Styles, 4)
}
