package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var (
	// ErrUnknownExtension is returned for files whose extension has no
	// grammar.
	ErrUnknownExtension = errors.New("unknown file extension")
	// ErrParse is returned when the source has syntax errors.
	ErrParse = errors.New("parse error")
)

// languageFor picks the grammar for filename.
func languageFor(filename string) (*sitter.Language, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tsx":
		return tsx.GetLanguage(), nil
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage(), nil
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, filename)
}

// SupportsFile reports whether filename has a known extension.
func SupportsFile(filename string) bool {
	_, err := languageFor(filename)
	return err == nil
}

// allowsJSX reports whether generated code for filename may use JSX.
func allowsJSX(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tsx", ".jsx", ".js":
		return true
	}
	return false
}

// parseSource parses src with the grammar for filename. The caller owns
// the returned tree.
func parseSource(ctx context.Context, filename string, src []byte) (*sitter.Tree, error) {
	lang, err := languageFor(filename)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, filename, err)
	}
	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("%w: %s: empty tree", ErrParse, filename)
	}
	if root.HasError() {
		pos := firstError(root)
		tree.Close()
		if pos != nil {
			return nil, fmt.Errorf("%w: %s:%d:%d", ErrParse, filename, pos.Row+1, pos.Column+1)
		}
		return nil, fmt.Errorf("%w: %s", ErrParse, filename)
	}
	return tree, nil
}

func firstError(n *sitter.Node) *sitter.Point {
	if n == nil {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		p := n.StartPoint()
		return &p
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.HasError() && !c.IsMissing() {
			continue
		}
		if p := firstError(c); p != nil {
			return p
		}
	}
	return nil
}

// unwrap strips parentheses and TypeScript-only wrappers.
func unwrap(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression", "type_assertion":
			inner := firstNamedExpression(n)
			if inner == nil {
				return n
			}
			n = inner
		default:
			return n
		}
	}
	return n
}

// firstNamedExpression returns the first named child that is not a type
// or comment.
func firstNamedExpression(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "comment", "type_arguments", "type_annotation":
			continue
		}
		if strings.HasSuffix(c.Type(), "_type") || c.Type() == "type_identifier" {
			continue
		}
		return c
	}
	return nil
}

// namedChildren lists the named children of n without comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// binaryOperator returns the operator token of a binary expression.
func binaryOperator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && !c.IsNamed() {
			return c.Type()
		}
	}
	return ""
}

// stringValue decodes a string literal node.
func stringValue(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	return unquote(n.Content(src)), true
}

// unquote decodes a JS single or double quoted string.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}
	body := s[1 : len(s)-1]
	if !strings.Contains(body, "\\") {
		return body
	}
	if q == '\'' {
		body = strings.ReplaceAll(body, `\'`, `'`)
		body = strings.ReplaceAll(body, `"`, `\"`)
	}
	if v, err := strconv.Unquote(`"` + body + `"`); err == nil {
		return v
	}
	return body
}

// templateChunks splits a template_string into its static text chunks and
// substitution expressions. chunks has one more element than subs.
func templateChunks(n *sitter.Node, src []byte) (chunks []string, subs []*sitter.Node) {
	start := int(n.StartByte()) + 1
	end := int(n.EndByte()) - 1
	pos := start
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "template_substitution" {
			continue
		}
		chunks = append(chunks, string(src[pos:int(c.StartByte())]))
		subs = append(subs, firstNamedExpression(c))
		pos = int(c.EndByte())
	}
	if pos > end {
		pos = end
	}
	chunks = append(chunks, string(src[pos:end]))
	return chunks, subs
}

// propertyKey resolves the static name of an object key.
func propertyKey(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "identifier", "private_property_identifier":
		return n.Content(src), true
	case "string":
		return stringValue(n, src)
	case "number":
		return n.Content(src), true
	case "computed_property_name":
		inner := unwrap(firstNamedExpression(n))
		if inner == nil {
			return "", false
		}
		switch inner.Type() {
		case "string":
			return stringValue(inner, src)
		case "number":
			return inner.Content(src), true
		case "template_string":
			chunks, subs := templateChunks(inner, src)
			if len(subs) == 0 {
				return chunks[0], true
			}
		}
	}
	return "", false
}

// jsxAttributeName returns the name of a jsx_attribute.
func jsxAttributeName(n *sitter.Node, src []byte) string {
	if c := n.NamedChild(0); c != nil {
		return c.Content(src)
	}
	return ""
}

// jsxAttributeValue returns the value node of a jsx_attribute, unwrapping
// the expression container. A nil node means a bare boolean attribute.
func jsxAttributeValue(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() < 2 {
		return nil
	}
	v := n.NamedChild(int(n.NamedChildCount()) - 1)
	if v.Type() == "jsx_expression" {
		return firstNamedExpression(v)
	}
	return v
}

func isNumberLiteral(n *sitter.Node) bool {
	return n != nil && n.Type() == "number"
}

func position(n *sitter.Node) (line, col int) {
	p := n.StartPoint()
	return int(p.Row) + 1, int(p.Column) + 1
}
