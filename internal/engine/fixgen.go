package engine

import (
	"strings"

	"winter/internal/diag"
	"winter/internal/plugin"
	"winter/internal/rules"
)

// generateFix produces the well-known auto-fix for a rule, or nil. The
// table is closed: unknown rule IDs get no fix. A fix replaces the
// element's whole source line.
func generateFix(ruleID, sourceLine string, node plugin.Node) *diag.Fix {
	switch ruleID {
	case "component-requires-guid":
		line, ok := spliceAttribute(sourceLine, `Guid="*"`)
		if !ok {
			return nil
		}
		return &diag.Fix{
			Description: `Add Guid="*" for automatic GUID generation`,
			Replacement: line,
			Safety:      diag.FixSafe,
		}

	case "component-guid-hardcoded":
		guid, ok := node.Attr("Guid")
		if !ok || guid == "" {
			return nil
		}
		old := `Guid="` + guid + `"`
		if !strings.Contains(sourceLine, old) {
			return nil
		}
		return &diag.Fix{
			Description: `Replace hardcoded GUID with "*"`,
			Replacement: strings.Replace(sourceLine, old, `Guid="*"`, 1),
			Safety:      diag.FixSafe,
		}

	case "package-requires-version":
		line, ok := spliceAttribute(sourceLine, `Version="1.0.0.0"`)
		if !ok {
			return nil
		}
		return &diag.Fix{
			Description: `Add Version="1.0.0.0"`,
			Replacement: line,
			Safety:      diag.FixSafe,
		}

	case "package-requires-upgradecode":
		line, ok := spliceAttribute(sourceLine, `UpgradeCode="PUT-GUID-HERE"`)
		if !ok {
			return nil
		}
		return &diag.Fix{
			Description: "Add UpgradeCode with a placeholder GUID to fill in",
			Replacement: line,
			Safety:      diag.FixUnsafe,
		}

	case "file-hardcoded-path":
		src, ok := node.Attr("Source")
		if !ok || src == "" {
			return nil
		}
		base := src
		if i := strings.LastIndex(src, `\`); i >= 0 {
			base = src[i+1:]
		}
		old := `Source="` + src + `"`
		if !strings.Contains(sourceLine, old) {
			return nil
		}
		repl := `Source="$(var.SourceDir)\` + base + `"`
		return &diag.Fix{
			Description: "Replace hardcoded path with $(var.SourceDir)",
			Replacement: strings.Replace(sourceLine, old, repl, 1),
			Safety:      diag.FixUnsafe,
		}

	case "registryvalue-requires-type":
		line, ok := spliceAttribute(sourceLine, `Type="string"`)
		if !ok {
			return nil
		}
		return &diag.Fix{
			Description: `Add Type="string"`,
			Replacement: line,
			Safety:      diag.FixSafe,
		}
	}
	return nil
}

// fixFromSuggestion materializes a fix declared on the rule itself.
// Declared fixes are considered safe; the author chose the value.
func fixFromSuggestion(s *rules.FixSuggestion, sourceLine string) *diag.Fix {
	if s == nil {
		return nil
	}
	switch s.Action {
	case "addAttribute", "setAttribute":
		if s.Attribute == "" {
			return nil
		}
		line, ok := spliceAttribute(sourceLine, s.Attribute+`="`+s.Value+`"`)
		if !ok {
			return nil
		}
		desc := s.Description
		if desc == "" {
			desc = "Add " + s.Attribute + `="` + s.Value + `"`
		}
		return &diag.Fix{Description: desc, Replacement: line, Safety: diag.FixSafe}
	}
	return nil
}

// spliceAttribute inserts an attribute before the closing bracket of
// the element's opening tag on its source line.
func spliceAttribute(line, attrText string) (string, bool) {
	end := strings.LastIndex(line, ">")
	if end < 0 {
		return "", false
	}
	head := line[:end]
	tail := line[end:] // ">" and anything after on the line
	if strings.HasSuffix(head, "/") {
		head = strings.TrimRight(head[:len(head)-1], " ")
		return head + " " + attrText + " /" + tail, true
	}
	return strings.TrimRight(head, " ") + " " + attrText + tail, true
}
