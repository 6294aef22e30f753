package output

import (
	"fmt"
	"io"

	"winter/internal/engine"
)

// compactRenderer prints one line per diagnostic in the classic
// file:line:col grep-friendly shape.
type compactRenderer struct {
	opts Options
}

func (r *compactRenderer) Render(w io.Writer, res *engine.Result) error {
	items, hidden := capDiagnostics(res, r.opts)
	for i := range items {
		d := &items[i]
		fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n",
			d.Location.File, d.Location.Line, d.Location.Column,
			d.Severity, d.Message, d.RuleID)
	}
	if hidden > 0 {
		fmt.Fprintf(w, "... %d more diagnostics hidden\n", hidden)
	}
	return nil
}
