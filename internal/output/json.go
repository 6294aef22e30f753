package output

import (
	"encoding/json"
	"io"

	"winter/internal/engine"
)

type locationJSON struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type fixJSON struct {
	Description string `json:"description"`
	Replacement string `json:"replacement"`
	Safety      string `json:"safety"`
}

type diagnosticJSON struct {
	RuleID   string       `json:"rule_id"`
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Location locationJSON `json:"location"`
	Help     string       `json:"help,omitempty"`
	Fix      *fixJSON     `json:"fix,omitempty"`
	Notes    []string     `json:"notes,omitempty"`
}

type timingJSON struct {
	RuleID      string  `json:"rule_id"`
	TotalMs     float64 `json:"total_ms"`
	Evaluations int     `json:"evaluations"`
	Matches     int     `json:"matches"`
}

type resultJSON struct {
	Diagnostics    []diagnosticJSON `json:"diagnostics"`
	Count          int              `json:"count"`
	Hidden         int              `json:"hidden,omitempty"`
	FilesProcessed int              `json:"files_processed"`
	ErrorCount     int              `json:"error_count"`
	WarningCount   int              `json:"warning_count"`
	InfoCount      int              `json:"info_count"`
	DurationMs     float64          `json:"duration_ms"`
	Timings        []timingJSON     `json:"timings,omitempty"`
}

type jsonRenderer struct {
	opts Options
}

// buildResultJSON shapes the output without serializing it.
func buildResultJSON(res *engine.Result, opts Options) resultJSON {
	items, hidden := capDiagnostics(res, opts)

	out := resultJSON{
		Diagnostics:    make([]diagnosticJSON, 0, len(items)),
		Count:          len(items),
		Hidden:         hidden,
		FilesProcessed: res.FilesProcessed,
		ErrorCount:     res.ErrorCount,
		WarningCount:   res.WarningCount,
		InfoCount:      res.InfoCount,
		DurationMs:     float64(res.Duration.Microseconds()) / 1000.0,
	}

	for i := range items {
		d := &items[i]
		dj := diagnosticJSON{
			RuleID:   d.RuleID,
			Severity: d.Severity.String(),
			Message:  d.Message,
			Location: locationJSON{
				File:   d.Location.File,
				Line:   d.Location.Line,
				Column: d.Location.Column,
			},
			Help:  d.Help,
			Notes: d.Notes,
		}
		if d.Fix != nil {
			dj.Fix = &fixJSON{
				Description: d.Fix.Description,
				Replacement: d.Fix.Replacement,
				Safety:      d.Fix.Safety.String(),
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}

	if opts.ShowTimings {
		for _, t := range res.SortedTimings() {
			out.Timings = append(out.Timings, timingJSON{
				RuleID:      t.ID,
				TotalMs:     float64(t.Timing.Total.Microseconds()) / 1000.0,
				Evaluations: t.Timing.Evaluations,
				Matches:     t.Timing.Matches,
			})
		}
	}
	return out
}

func (r *jsonRenderer) Render(w io.Writer, res *engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildResultJSON(res, r.opts))
}
