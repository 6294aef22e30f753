package cache

import (
	"crypto/sha256"
	"testing"

	"winter/internal/diag"
	"winter/internal/rules"
)

func TestRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir(), RulesHash(rules.Builtin()))
	if err != nil {
		t.Fatal(err)
	}

	hash := sha256.Sum256([]byte("file content"))
	if _, ok := c.Get("a.wxs", hash); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	in := &Entry{
		Diagnostics: []diag.Diagnostic{
			diag.New("component-requires-guid", diag.SevWarning, "msg",
				diag.Location{File: "a.wxs", Line: 3, Column: 5}),
		},
		WarningCount: 1,
	}
	if err := c.Put("a.wxs", hash, in); err != nil {
		t.Fatal(err)
	}

	out, ok := c.Get("a.wxs", hash)
	if !ok {
		t.Fatal("expected hit")
	}
	if out.WarningCount != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("entry mangled: %+v", out)
	}
	if out.Diagnostics[0].RuleID != "component-requires-guid" {
		t.Fatalf("diagnostic mangled: %+v", out.Diagnostics[0])
	}
}

func TestRulesHashChangesWithRules(t *testing.T) {
	a := []*rules.Rule{rules.New("r1", "cond", "msg")}
	b := []*rules.Rule{rules.New("r1", "cond2", "msg")}
	if RulesHash(a) == RulesHash(b) {
		t.Fatal("condition change must change the hash")
	}
	if RulesHash(a) != RulesHash([]*rules.Rule{rules.New("r1", "cond", "msg")}) {
		t.Fatal("hash must be stable for identical rules")
	}
}

func TestDifferentRulesHashMisses(t *testing.T) {
	dir := t.TempDir()
	hash := sha256.Sum256([]byte("content"))

	c1, _ := Open(dir, RulesHash([]*rules.Rule{rules.New("r1", "c", "m")}))
	if err := c1.Put("a.wxs", hash, &Entry{InfoCount: 1}); err != nil {
		t.Fatal(err)
	}

	c2, _ := Open(dir, RulesHash([]*rules.Rule{rules.New("r2", "c", "m")}))
	if _, ok := c2.Get("a.wxs", hash); ok {
		t.Fatal("entry from different rule set must miss")
	}
}

func TestEntriesKeyedByPath(t *testing.T) {
	c, err := Open(t.TempDir(), RulesHash(rules.Builtin()))
	if err != nil {
		t.Fatal(err)
	}

	hash := sha256.Sum256([]byte("shared content"))
	if err := c.Put("a.wxs", hash, &Entry{WarningCount: 1}); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("b.wxs", hash); ok {
		t.Fatal("same content under another path must miss")
	}
	if err := c.Put("b.wxs", hash, &Entry{WarningCount: 2}); err != nil {
		t.Fatal(err)
	}

	a, _ := c.Get("a.wxs", hash)
	b, _ := c.Get("b.wxs", hash)
	if a == nil || b == nil || a.WarningCount != 1 || b.WarningCount != 2 {
		t.Fatalf("entries must stay separate per path: a=%+v b=%+v", a, b)
	}
}
