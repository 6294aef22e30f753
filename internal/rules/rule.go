// Package rules holds the declarative rule model and the built-in WiX
// rule set. Rules carry no behavior of their own; the engine evaluates
// their condition against every matching element.
package rules

import (
	"regexp"
	"strings"
	"sync"

	"winter/internal/diag"
)

// Category groups rules for reporting and selective enabling.
type Category string

const (
	CategoryCorrectness Category = "correctness"
	CategorySuspicious  Category = "suspicious"
	CategoryStyle       Category = "style"
	CategoryPortability Category = "portability"
	CategorySecurity    Category = "security"
	CategoryPedantic    Category = "pedantic"
)

// Target selects the elements a rule applies to. Kind is an exact
// element name; empty Kind matches every element. Name matches the
// element's Id attribute, with a single '*' wildcard anchored at both
// ends. Parent, when set, requires an exact parent element name.
type Target struct {
	Kind   string
	Name   string
	Parent string
}

// FixSuggestion is a declarative fix attached to a rule definition.
type FixSuggestion struct {
	Action      string // currently "addAttribute" or "setAttribute"
	Attribute   string
	Value       string
	Description string
}

type Rule struct {
	ID          string
	Name        string
	Description string
	Severity    diag.Severity
	Category    Category
	Target      Target
	Condition   string
	Message     string
	Help        string
	Fix         *FixSuggestion
	Tags        []string
	Enabled     bool
}

// New creates an enabled rule with the minimum useful fields.
func New(id, condition, message string) *Rule {
	return &Rule{
		ID:        id,
		Condition: condition,
		Message:   message,
		Severity:  diag.SevWarning,
		Category:  CategoryCorrectness,
		Enabled:   true,
	}
}

func (r *Rule) WithSeverity(s diag.Severity) *Rule {
	r.Severity = s
	return r
}

func (r *Rule) WithCategory(c Category) *Rule {
	r.Category = c
	return r
}

func (r *Rule) WithTarget(kind string) *Rule {
	r.Target.Kind = kind
	return r
}

func (r *Rule) WithTargetName(name string) *Rule {
	r.Target.Name = name
	return r
}

func (r *Rule) WithParent(parent string) *Rule {
	r.Target.Parent = parent
	return r
}

func (r *Rule) WithHelp(help string) *Rule {
	r.Help = help
	return r
}

func (r *Rule) WithFix(f FixSuggestion) *Rule {
	r.Fix = &f
	return r
}

func (r *Rule) WithTag(tag string) *Rule {
	r.Tags = append(r.Tags, tag)
	return r
}

func (r *Rule) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MatchesTarget reports whether an element with the given kind, id and
// parent kind is selected by the rule's target.
func (r *Rule) MatchesTarget(kind, id, parentKind string) bool {
	if r.Target.Kind != "" && r.Target.Kind != kind {
		return false
	}
	if r.Target.Parent != "" && r.Target.Parent != parentKind {
		return false
	}
	if r.Target.Name != "" && !matchName(r.Target.Name, id) {
		return false
	}
	return true
}

var nameRegexCache sync.Map // pattern -> *regexp.Regexp

// matchName handles the anchored single-wildcard form: "Foo*" matches
// "FooBar" but not "XFooBar".
func matchName(pattern, id string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == id
	}
	if v, ok := nameRegexCache.Load(pattern); ok {
		return v.(*regexp.Regexp).MatchString(id)
	}
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	re := regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
	nameRegexCache.Store(pattern, re)
	return re.MatchString(id)
}
