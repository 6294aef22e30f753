package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"winter/internal/diag"
)

// RuleTiming accumulates evaluation cost for one rule.
type RuleTiming struct {
	Total       time.Duration
	Evaluations int
	Matches     int
}

// Result aggregates one lint run. Results merge commutatively: merging
// per-worker results in any order yields the same counters and, after
// sorting, the same diagnostics.
type Result struct {
	Diagnostics       []diag.Diagnostic
	FilesProcessed    int
	FilesWithErrors   int
	FilesWithWarnings int
	ErrorCount        int
	WarningCount      int
	InfoCount         int
	Duration          time.Duration
	RuleTimings       map[string]RuleTiming
}

func NewResult() *Result {
	return &Result{RuleTimings: make(map[string]RuleTiming)}
}

// Add records a diagnostic and bumps the severity counters.
func (r *Result) Add(d diag.Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case diag.SevError:
		r.ErrorCount++
	case diag.SevWarning:
		r.WarningCount++
	case diag.SevInfo:
		r.InfoCount++
	}
}

// Merge folds other into r. Counters add and timing entries sum per
// rule, so the operation commutes and associates.
func (r *Result) Merge(other *Result) {
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
	r.FilesProcessed += other.FilesProcessed
	r.FilesWithErrors += other.FilesWithErrors
	r.FilesWithWarnings += other.FilesWithWarnings
	r.ErrorCount += other.ErrorCount
	r.WarningCount += other.WarningCount
	r.InfoCount += other.InfoCount
	r.Duration += other.Duration
	for id, t := range other.RuleTimings {
		cur := r.RuleTimings[id]
		cur.Total += t.Total
		cur.Evaluations += t.Evaluations
		cur.Matches += t.Matches
		r.RuleTimings[id] = cur
	}
}

// ExitCode implements the process exit contract: 2 with errors, 1 with
// warnings only, 0 otherwise.
func (r *Result) ExitCode() int {
	if r.ErrorCount > 0 {
		return 2
	}
	if r.WarningCount > 0 {
		return 1
	}
	return 0
}

func (r *Result) HasErrors() bool   { return r.ErrorCount > 0 }
func (r *Result) HasWarnings() bool { return r.WarningCount > 0 }

// IsClean reports a run with no errors and no warnings; infos alone
// leave a run clean.
func (r *Result) IsClean() bool { return r.ErrorCount == 0 && r.WarningCount == 0 }

// Sort orders diagnostics by file, line, column, severity, rule ID so
// parallel and sequential runs render identically.
func (r *Result) Sort() {
	diag.SortDiagnostics(r.Diagnostics)
}

// SortedTimings returns rule timings by descending total time; ties
// break on rule ID.
func (r *Result) SortedTimings() []struct {
	ID     string
	Timing RuleTiming
} {
	out := make([]struct {
		ID     string
		Timing RuleTiming
	}, 0, len(r.RuleTimings))
	for id, t := range r.RuleTimings {
		out = append(out, struct {
			ID     string
			Timing RuleTiming
		}{id, t})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timing.Total != out[j].Timing.Total {
			return out[i].Timing.Total > out[j].Timing.Total
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FormatTimings renders the fixed-width timing table.
func (r *Result) FormatTimings() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %12s %12s %10s %12s\n",
		pad("Rule ID", 40), "Total (ms)", "Avg (µs)", "Evals", "Matches"))
	b.WriteString(strings.Repeat("-", 92) + "\n")
	for _, entry := range r.SortedTimings() {
		t := entry.Timing
		totalMs := float64(t.Total) / float64(time.Millisecond)
		avgUs := 0.0
		if t.Evaluations > 0 {
			avgUs = float64(t.Total) / float64(t.Evaluations) / float64(time.Microsecond)
		}
		b.WriteString(fmt.Sprintf("%s %12.3f %12.2f %10d %12d\n",
			pad(entry.ID, 40), totalMs, avgUs, t.Evaluations, t.Matches))
	}
	return b.String()
}

// pad left-aligns to a display width, aware of wide runes.
func pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
