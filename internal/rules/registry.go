package rules

import (
	"fmt"
	"sort"
)

// Registry indexes rules by ID and by target kind for the engine's
// per-element lookup. A registry is built once before a run and read
// concurrently afterwards.
type Registry struct {
	byID   map[string]*Rule
	byKind map[string][]*Rule
	anyTgt []*Rule // rules with no target kind apply to every element
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]*Rule),
		byKind: make(map[string][]*Rule),
	}
}

// NewBuiltinRegistry returns a registry seeded with the built-in rules.
func NewBuiltinRegistry() *Registry {
	reg := NewRegistry()
	for _, r := range Builtin() {
		// built-in IDs are unique by construction
		if err := reg.Add(r); err != nil {
			panic(err)
		}
	}
	return reg
}

// Add registers a rule; duplicate IDs are an error.
func (reg *Registry) Add(r *Rule) error {
	if r.ID == "" {
		return fmt.Errorf("rule has empty id")
	}
	if _, exists := reg.byID[r.ID]; exists {
		return fmt.Errorf("duplicate rule id %q", r.ID)
	}
	reg.byID[r.ID] = r
	if r.Target.Kind == "" {
		reg.anyTgt = append(reg.anyTgt, r)
	} else {
		reg.byKind[r.Target.Kind] = append(reg.byKind[r.Target.Kind], r)
	}
	return nil
}

// Get returns the rule with the given ID, if registered.
func (reg *Registry) Get(id string) (*Rule, bool) {
	r, ok := reg.byID[id]
	return r, ok
}

// All returns every rule sorted by ID.
func (reg *Registry) All() []*Rule {
	out := make([]*Rule, 0, len(reg.byID))
	for _, r := range reg.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ForKind returns the rules whose target can select an element of the
// given kind, including untargeted rules.
func (reg *Registry) ForKind(kind string) []*Rule {
	targeted := reg.byKind[kind]
	if len(reg.anyTgt) == 0 {
		return targeted
	}
	out := make([]*Rule, 0, len(targeted)+len(reg.anyTgt))
	out = append(out, targeted...)
	out = append(out, reg.anyTgt...)
	return out
}

// Len returns the number of registered rules.
func (reg *Registry) Len() int { return len(reg.byID) }

// SetEnabled flips a rule on or off; unknown IDs are ignored.
func (reg *Registry) SetEnabled(id string, enabled bool) {
	if r, ok := reg.byID[id]; ok {
		r.Enabled = enabled
	}
}
