// Package output renders lint results for humans, editors and CI.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"winter/internal/diag"
	"winter/internal/engine"
)

// Options tunes rendering. Max caps the diagnostics printed, not the
// counters in the summary.
type Options struct {
	MaxCount    int
	ShowTimings bool
	Quiet       bool
}

// Renderer writes one result to a stream.
type Renderer interface {
	Render(w io.Writer, res *engine.Result) error
}

// New maps a format name to its renderer.
func New(format string, opts Options) (Renderer, error) {
	switch format {
	case "text", "":
		return &textRenderer{opts: opts}, nil
	case "json":
		return &jsonRenderer{opts: opts}, nil
	case "github":
		return &githubRenderer{opts: opts}, nil
	case "compact":
		return &compactRenderer{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// SetColorMode resolves auto/on/off against the actual stdout.
func SetColorMode(mode string) {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	}
}

// capDiagnostics applies MaxCount and reports how many were hidden.
func capDiagnostics(res *engine.Result, opts Options) ([]diag.Diagnostic, int) {
	items := res.Diagnostics
	if opts.MaxCount > 0 && len(items) > opts.MaxCount {
		return items[:opts.MaxCount], len(items) - opts.MaxCount
	}
	return items, 0
}
