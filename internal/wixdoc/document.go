// Package wixdoc parses WiX authoring sources into an immutable arena
// of elements. All navigation is by integer index, so a parsed Document
// can be shared across goroutines without locking.
package wixdoc

import (
	"winter/internal/source"
)

// NoParent marks an element without a parent (the root).
const NoParent = -1

// Element is a single node in the arena. Children and Parent are
// indices into Document.Elements.
type Element struct {
	Name       string
	Attributes map[string]string
	Children   []int
	Parent     int
	Line       int
	Column     int
	ByteOffset int
	Text       string
}

// Attr returns the attribute value; absent attributes read as "".
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attributes[name]
	return v, ok
}

// HasAttr reports whether the attribute is present at all.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attributes[name]
	return ok
}

// Document is the parsed arena. It is never mutated after Parse.
type Document struct {
	Path     string
	Root     int
	Elements []Element

	file         *source.File
	disables     map[int]disable
	fileDisables map[string]struct{}
	fileAll      bool
}

// disable records an inline suppression comment found on a line.
// Empty rules means all rules.
type disable struct {
	rules    map[string]struct{}
	nextLine bool
}

// Get returns the element at index i, or nil when out of range.
func (d *Document) Get(i int) *Element {
	if i < 0 || i >= len(d.Elements) {
		return nil
	}
	return &d.Elements[i]
}

// ParentOf returns the parent index, or NoParent.
func (d *Document) ParentOf(i int) int {
	if e := d.Get(i); e != nil {
		return e.Parent
	}
	return NoParent
}

// CountChildren counts direct children; empty name counts all.
func (d *Document) CountChildren(i int, name string) int {
	e := d.Get(i)
	if e == nil {
		return 0
	}
	if name == "" {
		return len(e.Children)
	}
	n := 0
	for _, c := range e.Children {
		if d.Elements[c].Name == name {
			n++
		}
	}
	return n
}

// HasChild reports whether the element has a direct child with the name.
func (d *Document) HasChild(i int, name string) bool {
	e := d.Get(i)
	if e == nil {
		return false
	}
	for _, c := range e.Children {
		if d.Elements[c].Name == name {
			return true
		}
	}
	return false
}

// Depth returns the nesting depth of element i (root = 1).
func (d *Document) Depth(i int) int {
	depth := 0
	for i != NoParent {
		e := d.Get(i)
		if e == nil {
			break
		}
		depth++
		i = e.Parent
	}
	return depth
}

// SourceLine returns the 1-based source line text.
func (d *Document) SourceLine(n int) string {
	return d.file.GetLine(n)
}

// Hash returns the content hash of the underlying file.
func (d *Document) Hash() [32]byte {
	return d.file.Hash
}

// RuleDisabled reports whether an inline comment suppresses ruleID at
// the given line. A directive on the element's own line applies to it;
// the next-line form applies to the line below the comment.
func (d *Document) RuleDisabled(ruleID string, line int) bool {
	if dis, ok := d.disables[line]; ok && !dis.nextLine && dis.covers(ruleID) {
		return true
	}
	if dis, ok := d.disables[line-1]; ok && dis.nextLine && dis.covers(ruleID) {
		return true
	}
	return false
}

// RuleDisabledForFile reports whether a winter-disable-file directive
// suppresses ruleID everywhere in this document. A directive with no
// rule list, or listing "all", suppresses every rule.
func (d *Document) RuleDisabledForFile(ruleID string) bool {
	if d.fileAll {
		return true
	}
	_, ok := d.fileDisables[ruleID]
	return ok
}

func (dis disable) covers(ruleID string) bool {
	if len(dis.rules) == 0 {
		return true
	}
	_, ok := dis.rules[ruleID]
	return ok
}
