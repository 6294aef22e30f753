package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"winter/internal/diag"
	"winter/internal/engine"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	ruleColor = color.New(color.FgMagenta)
	locColor  = color.New(color.FgHiBlack)
	fixColor  = color.New(color.FgGreen)
)

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

type textRenderer struct {
	opts Options
}

func (r *textRenderer) Render(w io.Writer, res *engine.Result) error {
	items, hidden := capDiagnostics(res, r.opts)

	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		r.renderOne(w, &items[i])
	}
	if hidden > 0 {
		fmt.Fprintf(w, "\n... and %d more diagnostics (raise --max-diagnostics to see them)\n", hidden)
	}

	if r.opts.ShowTimings && len(res.RuleTimings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, res.FormatTimings())
	}

	if !r.opts.Quiet {
		if len(items) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, summaryLine(res))
	}
	return nil
}

func (r *textRenderer) renderOne(w io.Writer, d *diag.Diagnostic) {
	sev := severityColor(d.Severity)
	fmt.Fprintf(w, "%s %s %s\n",
		sev.Sprintf("%s:", d.Severity), d.Message, ruleColor.Sprintf("[%s]", d.RuleID))
	fmt.Fprintf(w, "  %s %s:%d:%d\n",
		locColor.Sprint("-->"), d.Location.File, d.Location.Line, d.Location.Column)

	if d.SourceLine != "" {
		gutter := gutterWidth(d)
		for _, c := range d.ContextBefore {
			fmt.Fprintf(w, "  %*d | %s\n", gutter, c.Line, c.Text)
		}
		fmt.Fprintf(w, "  %*d | %s\n", gutter, d.Location.Line, d.SourceLine)
		fmt.Fprintf(w, "  %s | %s%s\n",
			strings.Repeat(" ", gutter),
			strings.Repeat(" ", markerOffset(d)),
			sev.Sprint("^"))
		for _, c := range d.ContextAfter {
			fmt.Fprintf(w, "  %*d | %s\n", gutter, c.Line, c.Text)
		}
	}

	if d.Help != "" {
		fmt.Fprintf(w, "  %s %s\n", infoColor.Sprint("help:"), d.Help)
	}
	if d.Fix != nil {
		fmt.Fprintf(w, "  %s %s\n",
			fixColor.Sprintf("fix (%s):", d.Fix.Safety), d.Fix.Description)
		if d.Fix.Replacement != "" {
			fmt.Fprintf(w, "      %s\n", strings.TrimLeft(d.Fix.Replacement, " \t"))
		}
	}
	for _, note := range d.Notes {
		fmt.Fprintf(w, "  note: %s\n", note)
	}
}

func gutterWidth(d *diag.Diagnostic) int {
	last := d.Location.Line
	if n := len(d.ContextAfter); n > 0 {
		last = d.ContextAfter[n-1].Line
	}
	return len(fmt.Sprintf("%d", last))
}

// markerOffset converts the 1-based column to a display offset,
// counting tabs and wide runes in the source line prefix.
func markerOffset(d *diag.Diagnostic) int {
	col := d.Location.Column - 1
	if col < 0 {
		col = 0
	}
	line := d.SourceLine
	offset := 0
	for i, r := range line {
		if i >= col {
			break
		}
		if r == '\t' {
			offset += 4
			continue
		}
		offset += runewidth.RuneWidth(r)
	}
	return offset
}

func summaryLine(res *engine.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d files checked", res.FilesProcessed)
	if res.ErrorCount > 0 {
		fmt.Fprintf(&b, ", %s", errColor.Sprintf("%d errors", res.ErrorCount))
	}
	if res.WarningCount > 0 {
		fmt.Fprintf(&b, ", %s", warnColor.Sprintf("%d warnings", res.WarningCount))
	}
	if res.InfoCount > 0 {
		fmt.Fprintf(&b, ", %d infos", res.InfoCount)
	}
	if res.ErrorCount == 0 && res.WarningCount == 0 && res.InfoCount == 0 {
		b.WriteString(", no problems")
	}
	fmt.Fprintf(&b, " (%s)", res.Duration.Round(time.Millisecond))
	return b.String()
}
