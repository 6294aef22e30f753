package engine

import (
	"strings"
	"testing"
	"time"

	"winter/internal/diag"
)

func resultWith(errs, warns, infos int) *Result {
	r := NewResult()
	for i := 0; i < errs; i++ {
		r.Add(diag.New("e", diag.SevError, "m", diag.Location{File: "a.wxs"}))
	}
	for i := 0; i < warns; i++ {
		r.Add(diag.New("w", diag.SevWarning, "m", diag.Location{File: "a.wxs"}))
	}
	for i := 0; i < infos; i++ {
		r.Add(diag.New("i", diag.SevInfo, "m", diag.Location{File: "a.wxs"}))
	}
	return r
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		errs, warns, infos int
		want               int
	}{
		{0, 0, 0, 0},
		{0, 0, 3, 0},
		{0, 1, 0, 1},
		{0, 2, 5, 1},
		{1, 0, 0, 2},
		{2, 3, 1, 2},
	}
	for _, tc := range cases {
		r := resultWith(tc.errs, tc.warns, tc.infos)
		if got := r.ExitCode(); got != tc.want {
			t.Errorf("ExitCode(%d errs, %d warns) = %d, want %d",
				tc.errs, tc.warns, got, tc.want)
		}
	}
}

func TestResultPredicates(t *testing.T) {
	cases := []struct {
		errs, warns, infos              int
		hasErrors, hasWarnings, isClean bool
	}{
		{0, 0, 0, false, false, true},
		{0, 0, 3, false, false, true},
		{0, 2, 0, false, true, false},
		{1, 0, 0, true, false, false},
		{2, 3, 1, true, true, false},
	}
	for _, tc := range cases {
		r := resultWith(tc.errs, tc.warns, tc.infos)
		if r.HasErrors() != tc.hasErrors {
			t.Errorf("HasErrors(%d errs) = %v", tc.errs, r.HasErrors())
		}
		if r.HasWarnings() != tc.hasWarnings {
			t.Errorf("HasWarnings(%d warns) = %v", tc.warns, r.HasWarnings())
		}
		if r.IsClean() != tc.isClean {
			t.Errorf("IsClean(%d errs, %d warns, %d infos) = %v",
				tc.errs, tc.warns, tc.infos, r.IsClean())
		}
	}
}

func TestMergeCommutative(t *testing.T) {
	mk := func() (*Result, *Result) {
		a := resultWith(1, 2, 0)
		a.FilesProcessed = 3
		a.Duration = 5 * time.Millisecond
		a.RuleTimings["shared"] = RuleTiming{Total: time.Millisecond, Evaluations: 10, Matches: 2}
		a.RuleTimings["only-a"] = RuleTiming{Total: 2 * time.Millisecond, Evaluations: 4}

		b := resultWith(0, 1, 4)
		b.FilesProcessed = 2
		b.Duration = 3 * time.Millisecond
		b.RuleTimings["shared"] = RuleTiming{Total: 4 * time.Millisecond, Evaluations: 7, Matches: 1}
		b.RuleTimings["only-b"] = RuleTiming{Evaluations: 1}
		return a, b
	}

	ab, b1 := mk()
	ab.Merge(b1)
	a2, ba := mk()
	ba.Merge(a2)

	if ab.ErrorCount != ba.ErrorCount || ab.WarningCount != ba.WarningCount ||
		ab.InfoCount != ba.InfoCount || ab.FilesProcessed != ba.FilesProcessed ||
		ab.Duration != ba.Duration {
		t.Fatal("counters are not commutative")
	}
	if len(ab.Diagnostics) != len(ba.Diagnostics) {
		t.Fatal("diagnostics lost in merge")
	}
	for _, id := range []string{"shared", "only-a", "only-b"} {
		if ab.RuleTimings[id] != ba.RuleTimings[id] {
			t.Errorf("timing %s differs: %+v vs %+v", id, ab.RuleTimings[id], ba.RuleTimings[id])
		}
	}
	if got := ab.RuleTimings["shared"]; got.Total != 5*time.Millisecond ||
		got.Evaluations != 17 || got.Matches != 3 {
		t.Errorf("shared timing = %+v", got)
	}
}

func TestFormatTimings(t *testing.T) {
	r := NewResult()
	r.RuleTimings["slow-rule"] = RuleTiming{Total: 10 * time.Millisecond, Evaluations: 100, Matches: 5}
	r.RuleTimings["fast-rule"] = RuleTiming{Total: time.Millisecond, Evaluations: 50, Matches: 1}

	out := r.FormatTimings()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Rule ID") {
		t.Errorf("header: %q", lines[0])
	}
	// descending total time
	if !strings.HasPrefix(lines[2], "slow-rule") || !strings.HasPrefix(lines[3], "fast-rule") {
		t.Errorf("rows out of order:\n%s", out)
	}
	if !strings.Contains(lines[2], "100") || !strings.Contains(lines[2], "5") {
		t.Errorf("slow-rule row lacks counts: %q", lines[2])
	}
}

func TestSortedTimingsTieBreak(t *testing.T) {
	r := NewResult()
	r.RuleTimings["b-rule"] = RuleTiming{Total: time.Millisecond}
	r.RuleTimings["a-rule"] = RuleTiming{Total: time.Millisecond}
	s := r.SortedTimings()
	if s[0].ID != "a-rule" {
		t.Errorf("tie should break on rule ID, got %s first", s[0].ID)
	}
}
