// Package wixplug adapts WiX authoring sources to the plugin surface.
package wixplug

import (
	"errors"
	"strings"

	"winter/internal/plugin"
	"winter/internal/rules"
	"winter/internal/source"
	"winter/internal/wixdoc"
)

type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) ID() string          { return "wix" }
func (p *Plugin) Version() string     { return "1.0.0" }
func (p *Plugin) Description() string { return "WiX Toolset authoring sources (.wxs, .wxi)" }

func (p *Plugin) Extensions() []string { return []string{".wxs", ".wxi"} }

func (p *Plugin) Parse(path string, src []byte) (plugin.Document, error) {
	if !p.handles(path) {
		return nil, plugin.ErrUnsupportedFile
	}
	doc, err := wixdoc.Parse(source.New(path, src))
	if err != nil {
		var pe *wixdoc.ParseError
		if errors.As(err, &pe) {
			return nil, &plugin.ParseError{Path: pe.Path, Line: pe.Line, Msg: pe.Msg}
		}
		return nil, err
	}
	return &document{doc: doc}, nil
}

func (p *Plugin) Rules() []*rules.Rule { return rules.Builtin() }

func (p *Plugin) LoadRules(path string) ([]*rules.Rule, error) {
	return rules.LoadFile(path)
}

func (p *Plugin) handles(path string) bool {
	for _, ext := range p.Extensions() {
		if strings.HasSuffix(strings.ToLower(path), ext) {
			return true
		}
	}
	return false
}

// document wraps the arena so the engine sees only plugin interfaces.
type document struct {
	doc *wixdoc.Document
}

func (d *document) Path() string  { return d.doc.Path }
func (d *document) Root() int     { return d.doc.Root }
func (d *document) Len() int      { return len(d.doc.Elements) }
func (d *document) Hash() [32]byte { return d.doc.Hash() }

func (d *document) Node(i int) plugin.Node {
	if d.doc.Get(i) == nil {
		return nil
	}
	return &node{doc: d.doc, idx: i}
}

func (d *document) SourceLine(n int) string { return d.doc.SourceLine(n) }

func (d *document) RuleDisabled(ruleID string, line int) bool {
	return d.doc.RuleDisabled(ruleID, line)
}

func (d *document) RuleDisabledForFile(ruleID string) bool {
	return d.doc.RuleDisabledForFile(ruleID)
}

type node struct {
	doc *wixdoc.Document
	idx int
}

func (n *node) elem() *wixdoc.Element { return n.doc.Get(n.idx) }

func (n *node) Kind() string { return n.elem().Name }

func (n *node) Name() string {
	id, _ := n.elem().Attr("Id")
	return id
}

func (n *node) Attr(name string) (string, bool) { return n.elem().Attr(name) }
func (n *node) Attrs() map[string]string        { return n.elem().Attributes }
func (n *node) Children() []int                 { return n.elem().Children }
func (n *node) Parent() int                     { return n.elem().Parent }
func (n *node) Text() string                    { return n.elem().Text }

func (n *node) Location() plugin.Location {
	e := n.elem()
	return plugin.Location{File: n.doc.Path, Line: e.Line, Column: e.Column}
}
