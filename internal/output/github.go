package output

import (
	"fmt"
	"io"
	"strings"

	"winter/internal/diag"
	"winter/internal/engine"
)

// githubRenderer emits workflow commands that annotate pull requests.
type githubRenderer struct {
	opts Options
}

func (r *githubRenderer) Render(w io.Writer, res *engine.Result) error {
	items, _ := capDiagnostics(res, r.opts)
	for i := range items {
		d := &items[i]
		cmd := "notice"
		switch d.Severity {
		case diag.SevError:
			cmd = "error"
		case diag.SevWarning:
			cmd = "warning"
		}
		fmt.Fprintf(w, "::%s file=%s,line=%d,col=%d,title=%s::%s\n",
			cmd, d.Location.File, d.Location.Line, d.Location.Column,
			escapeProperty(d.RuleID), escapeData(d.Message))
	}
	return nil
}

// Workflow commands need %, CR and LF escaped in data; properties
// additionally escape , and :.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ",", "%2C")
	s = strings.ReplaceAll(s, ":", "%3A")
	return s
}
