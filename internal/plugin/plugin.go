// Package plugin defines the adapter surface between the lint engine
// and a document format. The engine only ever sees these interfaces;
// the WiX adapter in internal/wixplug is the one implementation today.
package plugin

import (
	"errors"
	"fmt"

	"winter/internal/rules"
)

// ErrUnsupportedFile is returned by Parse for files outside the
// plugin's extensions.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ParseError is returned by Parse for malformed documents, carrying
// the failure position for diagnostics.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Location addresses a node in its source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// Node is one element of a parsed document. Child and parent links are
// indices into the owning Document.
type Node interface {
	// Kind is the element type used by rule targets ("Component").
	Kind() string
	// Name is the node's identifier, usually the Id attribute.
	Name() string
	// Attr returns an attribute value; absent attributes are ("", false).
	Attr(name string) (string, bool)
	// Attrs returns all attributes. Callers must not mutate the map.
	Attrs() map[string]string
	Children() []int
	Parent() int
	Location() Location
	Text() string
}

// Document is an immutable parsed file, safe for concurrent reads.
type Document interface {
	Path() string
	Root() int
	Len() int
	Node(i int) Node
	SourceLine(n int) string
	// RuleDisabled reports inline suppression for a rule at a line.
	RuleDisabled(ruleID string, line int) bool
	// RuleDisabledForFile reports file-wide suppression for a rule.
	RuleDisabledForFile(ruleID string) bool
	// Hash identifies the exact source content.
	Hash() [32]byte
}

// Plugin adapts one document format to the engine.
type Plugin interface {
	ID() string
	Version() string
	Description() string
	// Extensions lists file suffixes this plugin handles (".wxs").
	Extensions() []string
	Parse(path string, src []byte) (Document, error)
	// Rules returns the plugin's built-in rule set.
	Rules() []*rules.Rule
	// LoadRules reads an external rule pack for this plugin.
	LoadRules(path string) ([]*rules.Rule, error)
}
