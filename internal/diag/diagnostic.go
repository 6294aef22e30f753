package diag

// Location points at the element that triggered a diagnostic.
// Line and Column are 1-based; Length is in bytes (0 = unknown).
type Location struct {
	File   string
	Line   int
	Column int
	Length int
}

// FixSafety classifies whether a fix can be applied without review.
type FixSafety uint8

const (
	FixSafe FixSafety = iota
	FixUnsafe
)

func (s FixSafety) String() string {
	if s == FixUnsafe {
		return "unsafe"
	}
	return "safe"
}

// Fix is a suggested source edit. Replacement is the full text of the
// element's source line after the edit.
type Fix struct {
	Description string
	Replacement string
	Safety      FixSafety
}

// ContextLine is a source line shown around the diagnostic location.
type ContextLine struct {
	Line int
	Text string
}

type Diagnostic struct {
	RuleID        string
	Severity      Severity
	Message       string
	Location      Location
	SourceLine    string
	ContextBefore []ContextLine
	ContextAfter  []ContextLine
	Help          string
	Fix           *Fix
	Notes         []string
}

// New creates a diagnostic with the mandatory fields set.
func New(ruleID string, sev Severity, msg string, loc Location) Diagnostic {
	return Diagnostic{RuleID: ruleID, Severity: sev, Message: msg, Location: loc}
}

func (d Diagnostic) WithSourceLine(line string) Diagnostic {
	d.SourceLine = line
	return d
}

func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

func (d Diagnostic) WithFix(fix Fix) Diagnostic {
	d.Fix = &fix
	return d
}

func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithContext attaches up to n source lines before and after the
// location. getLine returns "" for lines outside the file.
func (d Diagnostic) WithContext(n int, getLine func(int) string) Diagnostic {
	for i := d.Location.Line - n; i < d.Location.Line; i++ {
		if i < 1 {
			continue
		}
		d.ContextBefore = append(d.ContextBefore, ContextLine{Line: i, Text: getLine(i)})
	}
	for i := d.Location.Line + 1; i <= d.Location.Line+n; i++ {
		text := getLine(i)
		if text == "" {
			break
		}
		d.ContextAfter = append(d.ContextAfter, ContextLine{Line: i, Text: text})
	}
	return d
}
