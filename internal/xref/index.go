package xref

import (
	"fmt"
	"sort"
	"strings"

	"winter/internal/diag"
	"winter/internal/expr"
	"winter/internal/plugin"
)

type symbolKey struct {
	kind Kind
	id   string
}

// Index accumulates definitions and references across the file set.
// Collect is called once per document, single-goroutine; Validate reads
// the finished index.
type Index struct {
	definitions map[symbolKey][]Symbol
	references  []Reference
}

func NewIndex() *Index {
	return &Index{definitions: make(map[symbolKey][]Symbol)}
}

// Collect walks one document and records every definition and
// reference it contains.
func (x *Index) Collect(doc plugin.Document) {
	for i := 0; i < doc.Len(); i++ {
		node := doc.Node(i)
		name := node.Kind()
		loc := node.Location()

		if refs, ok := attrRefKinds[name]; ok {
			for _, ar := range refs {
				if id, ok := node.Attr(ar.attr); ok && usableID(id) {
					x.references = append(x.references, Reference{
						Kind: ar.kind, ID: id, Element: name, Loc: loc,
					})
				}
			}
			continue
		}

		if kind, ok := referenceKinds[name]; ok {
			if id, ok := node.Attr("Id"); ok && usableID(id) {
				x.references = append(x.references, Reference{
					Kind: kind, ID: id, Element: name, Loc: loc,
				})
			}
			continue
		}

		if kind, ok := definitionKinds[name]; ok {
			if id, ok := node.Attr("Id"); ok && usableID(id) {
				key := symbolKey{kind: kind, id: id}
				x.definitions[key] = append(x.definitions[key], Symbol{
					Kind: kind, ID: id, Loc: loc,
				})
			}
		}
	}
}

// usableID filters ids the validator cannot reason about: empty ids
// and binder/preprocessor variables resolved at build time.
func usableID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.Contains(id, "!(") && !strings.Contains(id, "$(")
}

// IsDefined reports whether a symbol resolves. Standard installer
// directories are always defined.
func (x *Index) IsDefined(kind Kind, id string) bool {
	if kind == KindDirectory && expr.IsStandardDirectory(id) {
		return true
	}
	_, ok := x.definitions[symbolKey{kind: kind, id: id}]
	return ok
}

// Definitions returns the definition sites for a symbol.
func (x *Index) Definitions(kind Kind, id string) []Symbol {
	return x.definitions[symbolKey{kind: kind, id: id}]
}

// Validate reports dangling references, duplicate definitions and
// unused symbols. Output order is deterministic: references in
// collection order, then definitions in sorted key order.
func (x *Index) Validate() []diag.Diagnostic {
	var out []diag.Diagnostic

	for _, ref := range x.references {
		if x.IsDefined(ref.Kind, ref.ID) {
			continue
		}
		ruleID := "xref-undefined-" + strings.ToLower(ref.Kind.DefinitionElement())
		msg := fmt.Sprintf("%s references undefined %s '%s'",
			ref.Element, ref.Kind.DefinitionElement(), ref.ID)
		out = append(out, diag.New(ruleID, diag.SevError, msg, diag.Location{
			File: ref.Loc.File, Line: ref.Loc.Line, Column: ref.Loc.Column,
		}))
	}

	referenced := make(map[symbolKey]bool, len(x.references))
	for _, ref := range x.references {
		referenced[symbolKey{kind: ref.Kind, id: ref.ID}] = true
	}

	keys := make([]symbolKey, 0, len(x.definitions))
	for k := range x.definitions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		return keys[i].id < keys[j].id
	})

	for _, key := range keys {
		defs := x.definitions[key]
		elemName := key.kind.DefinitionElement()

		// one diagnostic per extra definition, pointing back at the first
		if len(defs) > 1 {
			ruleID := "xref-duplicate-" + strings.ToLower(elemName)
			first := defs[0]
			for _, def := range defs[1:] {
				msg := fmt.Sprintf("Duplicate %s '%s' (first defined at %s:%d)",
					elemName, key.id, first.Loc.File, first.Loc.Line)
				out = append(out, diag.New(ruleID, diag.SevError, msg, diag.Location{
					File: def.Loc.File, Line: def.Loc.Line, Column: def.Loc.Column,
				}))
			}
		}

		// unused warnings only make sense for kinds with a Ref form
		if key.kind.ReferenceElement() == "" || referenced[key] {
			continue
		}
		ruleID := "xref-unused-" + strings.ToLower(elemName)
		msg := fmt.Sprintf("%s '%s' is defined but never referenced", elemName, key.id)
		out = append(out, diag.New(ruleID, diag.SevWarning, msg, diag.Location{
			File: defs[0].Loc.File, Line: defs[0].Loc.Line, Column: defs[0].Loc.Column,
		}))
	}

	return out
}
