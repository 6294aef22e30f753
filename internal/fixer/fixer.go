// Package fixer applies suggested fixes to source files. A fix
// replaces one whole line, so edits never shift other diagnostics'
// positions within a file.
package fixer

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"winter/internal/diag"
	"winter/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	// Unsafe also applies fixes that need human review.
	Unsafe bool
	// DryRun stages everything but writes nothing.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	RuleID      string
	Message     string
	Description string
	Safety      diag.FixSafety
	Path        string
	Line        int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	RuleID string
	Path   string
	Line   int
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
	DryRun      bool
}

type candidate struct {
	d     diag.Diagnostic
	order int
}

// Apply selects fixable diagnostics per opts and rewrites their files.
// Selection is deterministic: candidates sort by file, line, rule ID,
// and the first fix to claim a line wins.
func Apply(diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
		DryRun:      opts.DryRun,
	}

	candidates := make([]candidate, 0)
	for i, d := range diagnostics {
		if d.Fix == nil {
			continue
		}
		candidates = append(candidates, candidate{d: d, order: i})
	}
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].d, candidates[j].d
		if di.Location.File != dj.Location.File {
			return di.Location.File < dj.Location.File
		}
		if di.Location.Line != dj.Location.Line {
			return di.Location.Line < dj.Location.Line
		}
		if di.RuleID != dj.RuleID {
			return di.RuleID < dj.RuleID
		}
		return candidates[i].order < candidates[j].order
	})

	files := make(map[string]*source.File)
	claimed := make(map[string]map[int]string) // path -> line -> rule that edited it
	editCount := make(map[string]int)
	var dirty []string

	for _, cand := range candidates {
		d := cand.d
		loc := d.Location
		skip := func(reason string) {
			result.Skipped = append(result.Skipped, SkippedFix{
				RuleID: d.RuleID, Path: loc.File, Line: loc.Line, Reason: reason,
			})
		}

		if d.Fix.Safety == diag.FixUnsafe && !opts.Unsafe {
			skip("unsafe fix needs --unsafe")
			continue
		}
		if d.Fix.Replacement == "" {
			skip("fix has no replacement text")
			continue
		}

		file, ok := files[loc.File]
		if !ok {
			var err error
			file, err = source.Load(loc.File)
			if err != nil {
				skip(fmt.Sprintf("cannot read file: %v", err))
				continue
			}
			files[loc.File] = file
			claimed[loc.File] = make(map[int]string)
		}

		if prev, taken := claimed[loc.File][loc.Line]; taken {
			skip(fmt.Sprintf("line already changed by %s", prev))
			continue
		}
		content, ok := file.ReplaceLine(loc.Line, d.Fix.Replacement)
		if !ok {
			skip("fix location is outside the file")
			continue
		}

		updated := source.New(loc.File, content)
		files[loc.File] = updated
		claimed[loc.File][loc.Line] = d.RuleID
		if editCount[loc.File] == 0 {
			dirty = append(dirty, loc.File)
		}
		editCount[loc.File]++

		result.Applied = append(result.Applied, AppliedFix{
			RuleID:      d.RuleID,
			Message:     d.Message,
			Description: d.Fix.Description,
			Safety:      d.Fix.Safety,
			Path:        loc.File,
			Line:        loc.Line,
		})
	}

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	sort.Strings(dirty)
	for _, path := range dirty {
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      path,
			EditCount: editCount[path],
		})
		if opts.DryRun {
			continue
		}
		mode := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, files[path].Content, mode); err != nil {
			return result, fmt.Errorf("write %s: %w", path, err)
		}
	}
	return result, nil
}
