package extractor

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// importSet records the local bindings of the style package in one file.
type importSet struct {
	// names maps a local identifier to the exported name it binds.
	names map[string]string
	// namespaces holds identifiers bound by `import * as ns`.
	namespaces map[string]bool
}

func newImportSet() importSet {
	return importSet{names: make(map[string]string), namespaces: make(map[string]bool)}
}

// empty reports a file that does not import the style package.
func (s importSet) empty() bool {
	return len(s.names) == 0 && len(s.namespaces) == 0
}

// resolve maps a reference such as "Box", "B" or "ns.Box" to the exported
// name of the style package.
func (s importSet) resolve(ref string) (string, bool) {
	if exported, ok := s.names[ref]; ok {
		return exported, true
	}
	if ns, member, ok := strings.Cut(ref, "."); ok && s.namespaces[ns] && !strings.Contains(member, ".") {
		return member, true
	}
	return "", false
}

// collectImports reads the import statements of root. Imports of a package
// listed in aliases are rewritten to import from pkg; a default import of
// such a package binds the export named by the alias.
func collectImports(root *sitter.Node, doc *Document, pkg string, aliases map[string]string) importSet {
	src := doc.Source()
	set := newImportSet()
	for _, stmt := range namedChildren(root) {
		if stmt.Type() != "import_statement" {
			continue
		}
		source, ok := stringValue(stmt.ChildByFieldName("source"), src)
		if !ok {
			continue
		}
		alias, aliased := aliases[source]
		if source != pkg && !aliased {
			continue
		}

		var clause *sitter.Node
		for _, c := range namedChildren(stmt) {
			if c.Type() == "import_clause" {
				clause = c
			}
		}
		if clause == nil {
			continue
		}

		var specifiers []string
		for _, c := range namedChildren(clause) {
			switch c.Type() {
			case "identifier":
				// default import
				local := c.Content(src)
				exported := alias
				if exported == "" {
					exported = local
				}
				set.names[local] = exported
				specifiers = append(specifiers, importSpecifier(exported, local))
			case "namespace_import":
				if id := firstNamedExpression(c); id != nil {
					set.namespaces[id.Content(src)] = true
				}
			case "named_imports":
				for _, spec := range namedChildren(c) {
					if spec.Type() != "import_specifier" {
						continue
					}
					name := spec.ChildByFieldName("name")
					if name == nil {
						continue
					}
					exported := unquote(name.Content(src))
					local := exported
					if a := spec.ChildByFieldName("alias"); a != nil {
						local = a.Content(src)
					}
					set.names[local] = exported
					specifiers = append(specifiers, importSpecifier(exported, local))
				}
			}
		}

		if aliased {
			doc.Replace(int(stmt.StartByte()), int(stmt.EndByte()), rewriteImport(clause, src, specifiers, pkg))
		}
	}
	return set
}

func importSpecifier(exported, local string) string {
	if exported == local {
		return exported
	}
	return exported + " as " + local
}

// rewriteImport renders an aliased import against pkg. Namespace imports
// keep their clause.
func rewriteImport(clause *sitter.Node, src []byte, specifiers []string, pkg string) string {
	for _, c := range namedChildren(clause) {
		if c.Type() == "namespace_import" {
			return fmt.Sprintf("import %s from %s;", c.Content(src), jsString(pkg))
		}
	}
	return fmt.Sprintf("import { %s } from %s;", strings.Join(specifiers, ", "), jsString(pkg))
}

// importInsertPos returns the offset after any leading directive prologue
// ("use client") where new imports go.
func importInsertPos(root *sitter.Node, src []byte) int {
	pos := 0
	for _, stmt := range namedChildren(root) {
		if stmt.Type() != "expression_statement" {
			break
		}
		expr := firstNamedExpression(stmt)
		if expr == nil || expr.Type() != "string" {
			break
		}
		pos = int(stmt.EndByte())
	}
	if pos > 0 && pos < len(src) && src[pos] == '\n' {
		pos++
	}
	return pos
}
