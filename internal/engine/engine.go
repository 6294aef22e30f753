// Package engine evaluates the rule registry against documents and
// aggregates results. Files are independent until the cross-file pass,
// which runs strictly after all per-file work.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"winter/internal/cache"
	"winter/internal/diag"
	"winter/internal/expr"
	"winter/internal/plugin"
	"winter/internal/rules"
	"winter/internal/xref"
)

// Options tunes one run. The zero value is a sequential, uncached run
// with no filtering.
type Options struct {
	Parallel     bool
	Jobs         int // <=0 means GOMAXPROCS
	ContextLines int
	MinSeverity  diag.Severity
	// SeverityOverride takes precedence over a rule's declared severity.
	SeverityOverride map[string]diag.Severity
	Disabled         map[string]bool
	// FileIgnores returns rule IDs suppressed for a file via config.
	FileIgnores func(path string) []string
	CrossFile   bool
	Cache       *cache.Cache
}

type Engine struct {
	plugin   plugin.Plugin
	registry *rules.Registry
	opts     Options
}

func New(p plugin.Plugin, reg *rules.Registry, opts Options) *Engine {
	return &Engine{plugin: p, registry: reg, opts: opts}
}

// Run lints all paths and returns the merged, sorted result. Worker
// errors only surface for context cancellation; per-file problems
// become diagnostics instead.
func (e *Engine) Run(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	total := NewResult()

	var mu sync.Mutex
	var docs []plugin.Document

	lintOne := func(path string) {
		res, doc := e.lintFile(path)
		mu.Lock()
		total.Merge(res)
		if doc != nil {
			docs = append(docs, doc)
		}
		mu.Unlock()
	}

	if e.opts.Parallel && len(paths) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		jobs := e.opts.Jobs
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}
		g.SetLimit(jobs)
		for _, path := range paths {
			path := path
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				lintOne(path)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			lintOne(path)
		}
	}

	if e.opts.CrossFile {
		e.crossFile(docs, total)
	}

	total.Sort()
	total.Duration = time.Since(start)
	return total, nil
}

// lintFile never fails: read and parse problems become diagnostics
// that short-circuit only this file.
func (e *Engine) lintFile(path string) (*Result, plugin.Document) {
	res := NewResult()
	res.FilesProcessed = 1

	// #nosec G304 -- paths come from discovery or the command line
	src, err := os.ReadFile(path)
	if err != nil {
		res.Add(diag.New("file-read-error", diag.SevError,
			fmt.Sprintf("cannot read file: %v", err),
			diag.Location{File: path, Line: 1, Column: 1}))
		res.FilesWithErrors = 1
		return res, nil
	}

	doc, err := e.plugin.Parse(path, src)
	if err != nil {
		loc := diag.Location{File: path, Line: 1, Column: 1}
		var pe *plugin.ParseError
		if errors.As(err, &pe) {
			loc.Line = pe.Line
		}
		res.Add(diag.New("parse-error", diag.SevError,
			fmt.Sprintf("cannot parse file: %v", err), loc))
		res.FilesWithErrors = 1
		return res, nil
	}

	if e.opts.Cache != nil {
		if ent, ok := e.opts.Cache.Get(doc.Path(), doc.Hash()); ok {
			res.Diagnostics = append(res.Diagnostics, ent.Diagnostics...)
			res.ErrorCount += ent.ErrorCount
			res.WarningCount += ent.WarningCount
			res.InfoCount += ent.InfoCount
			markFileSeverity(res)
			return res, doc
		}
	}

	e.evaluateRules(doc, res)
	markFileSeverity(res)

	if e.opts.Cache != nil {
		_ = e.opts.Cache.Put(doc.Path(), doc.Hash(), &cache.Entry{
			Diagnostics:  res.Diagnostics,
			ErrorCount:   res.ErrorCount,
			WarningCount: res.WarningCount,
			InfoCount:    res.InfoCount,
		})
	}
	return res, doc
}

func markFileSeverity(res *Result) {
	if res.ErrorCount > 0 {
		res.FilesWithErrors = 1
	}
	if res.WarningCount > 0 {
		res.FilesWithWarnings = 1
	}
}

func (e *Engine) evaluateRules(doc plugin.Document, res *Result) {
	ignored := make(map[string]bool)
	if e.opts.FileIgnores != nil {
		for _, id := range e.opts.FileIgnores(doc.Path()) {
			ignored[id] = true
		}
	}

	for i := 0; i < doc.Len(); i++ {
		node := doc.Node(i)
		kind := node.Kind()
		parentKind := ""
		if p := node.Parent(); p >= 0 {
			if pn := doc.Node(p); pn != nil {
				parentKind = pn.Kind()
			}
		}
		loc := node.Location()
		ev := expr.NewEvaluator(doc, i)

		for _, rule := range e.registry.ForKind(kind) {
			if !rule.Enabled || e.opts.Disabled[rule.ID] || ignored[rule.ID] {
				continue
			}
			if doc.RuleDisabledForFile(rule.ID) || doc.RuleDisabled(rule.ID, loc.Line) {
				continue
			}
			if !rule.MatchesTarget(kind, node.Name(), parentKind) {
				continue
			}

			evalStart := time.Now()
			matched := ev.Eval(rule.Condition)
			t := res.RuleTimings[rule.ID]
			t.Total += time.Since(evalStart)
			t.Evaluations++
			if matched {
				t.Matches++
			}
			res.RuleTimings[rule.ID] = t
			if !matched {
				continue
			}

			sev := rule.Severity
			if o, ok := e.opts.SeverityOverride[rule.ID]; ok {
				sev = o
			}
			if sev < e.opts.MinSeverity {
				continue
			}

			srcLine := doc.SourceLine(loc.Line)
			d := diag.New(rule.ID, sev, renderMessage(rule.Message, node),
				diag.Location{File: loc.File, Line: loc.Line, Column: loc.Column}).
				WithSourceLine(srcLine)
			if e.opts.ContextLines > 0 {
				d = d.WithContext(e.opts.ContextLines, doc.SourceLine)
			}
			if rule.Help != "" {
				d = d.WithHelp(rule.Help)
			}
			if fix := fixFromSuggestion(rule.Fix, srcLine); fix != nil {
				d = d.WithFix(*fix)
			} else if fix := generateFix(rule.ID, srcLine, node); fix != nil {
				d = d.WithFix(*fix)
			}
			res.Add(d)
		}
	}
}

// crossFile collects symbols from every parsed document and folds the
// validator's diagnostics into the result. Collection order is sorted
// by path so duplicate reports are deterministic.
func (e *Engine) crossFile(docs []plugin.Document, total *Result) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path() < docs[j].Path() })

	byPath := make(map[string]plugin.Document, len(docs))
	x := xref.NewIndex()
	for _, doc := range docs {
		x.Collect(doc)
		byPath[doc.Path()] = doc
	}

	ignoredByPath := make(map[string]map[string]bool)
	ignoredFor := func(path string) map[string]bool {
		if ig, ok := ignoredByPath[path]; ok {
			return ig
		}
		ig := make(map[string]bool)
		if e.opts.FileIgnores != nil {
			for _, id := range e.opts.FileIgnores(path) {
				ig[id] = true
			}
		}
		ignoredByPath[path] = ig
		return ig
	}

	for _, d := range x.Validate() {
		if ignoredFor(d.Location.File)[d.RuleID] {
			continue
		}
		if doc, ok := byPath[d.Location.File]; ok {
			if doc.RuleDisabledForFile(d.RuleID) || doc.RuleDisabled(d.RuleID, d.Location.Line) {
				continue
			}
			d = d.WithSourceLine(doc.SourceLine(d.Location.Line))
		}
		if o, ok := e.opts.SeverityOverride[d.RuleID]; ok {
			d.Severity = o
		}
		if e.opts.Disabled[d.RuleID] || d.Severity < e.opts.MinSeverity {
			continue
		}
		total.Add(d)
	}
}

var msgToken = regexp.MustCompile(`\{(attributes\.[A-Za-z_][A-Za-z0-9_]*|name|kind)\}`)

// renderMessage interpolates {attributes.X}, {name} and {kind}.
// Absent attributes render empty.
func renderMessage(template string, node plugin.Node) string {
	return msgToken.ReplaceAllStringFunc(template, func(tok string) string {
		inner := tok[1 : len(tok)-1]
		switch inner {
		case "name":
			return node.Name()
		case "kind":
			return node.Kind()
		}
		v, _ := node.Attr(inner[len("attributes."):])
		return v
	})
}
