package wixdoc

import (
	"errors"
	"strings"
	"testing"

	"winter/internal/source"
)

const sampleWxs = `<?xml version="1.0"?>
<Wix xmlns="http://wixtoolset.org/schemas/v4/wxs">
  <Package Name="Test" Version="1.0.0" UpgradeCode="12345678-1234-1234-1234-123456789012">
    <Component Guid="*" Id="TestComponent">
      <File Source="test.exe" KeyPath="yes" />
      <File Source="test2.dll" />
    </Component>
  </Package>
</Wix>`

func parseStr(t *testing.T, xml string) *Document {
	t.Helper()
	doc, err := Parse(source.NewVirtual("test.wxs", []byte(xml)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func findElement(t *testing.T, doc *Document, name string) int {
	t.Helper()
	for i := range doc.Elements {
		if doc.Elements[i].Name == name {
			return i
		}
	}
	t.Fatalf("element %s not found", name)
	return -1
}

func TestParseTree(t *testing.T) {
	doc := parseStr(t, sampleWxs)
	if len(doc.Elements) != 5 {
		t.Fatalf("got %d elements, want 5", len(doc.Elements))
	}

	root := doc.Get(doc.Root)
	if root.Name != "Wix" || root.Parent != NoParent {
		t.Fatalf("bad root: %+v", root)
	}

	comp := findElement(t, doc, "Component")
	if got := doc.CountChildren(comp, "File"); got != 2 {
		t.Errorf("CountChildren(File) = %d, want 2", got)
	}
	if got := doc.CountChildren(comp, ""); got != 2 {
		t.Errorf("CountChildren(all) = %d, want 2", got)
	}
	if !doc.HasChild(comp, "File") {
		t.Error("HasChild(File) = false")
	}
	if doc.HasChild(comp, "Registry") {
		t.Error("HasChild(Registry) = true")
	}

	file := findElement(t, doc, "File")
	if doc.Depth(file) != 4 {
		t.Errorf("Depth(File) = %d, want 4", doc.Depth(file))
	}
	if doc.Elements[file].Parent != comp {
		t.Errorf("File parent = %d, want %d", doc.Elements[file].Parent, comp)
	}
}

func TestParsePositions(t *testing.T) {
	doc := parseStr(t, sampleWxs)
	pkg := doc.Get(findElement(t, doc, "Package"))
	if pkg.Line != 3 || pkg.Column != 3 {
		t.Fatalf("Package at %d:%d, want 3:3", pkg.Line, pkg.Column)
	}
	if !strings.Contains(doc.SourceLine(pkg.Line), "<Package") {
		t.Fatalf("SourceLine(%d) = %q", pkg.Line, doc.SourceLine(pkg.Line))
	}
}

func TestParseAttributes(t *testing.T) {
	doc := parseStr(t, sampleWxs)
	pkg := doc.Get(findElement(t, doc, "Package"))
	if v, ok := pkg.Attr("Name"); !ok || v != "Test" {
		t.Errorf("Attr(Name) = %q, %v", v, ok)
	}
	if _, ok := pkg.Attr("Missing"); ok {
		t.Error("Attr(Missing) should not exist")
	}
	if pkg.HasAttr("Missing") {
		t.Error("HasAttr(Missing) = true")
	}
	// xmlns never shows up as an attribute
	root := doc.Get(doc.Root)
	if len(root.Attributes) != 0 {
		t.Errorf("root attributes = %v, want none", root.Attributes)
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse(source.NewVirtual("bad.wxs", []byte("<Wix>\n  <Open\n")))
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type %T", err)
	}
	if pe.Line < 1 {
		t.Fatalf("line = %d", pe.Line)
	}
}

func TestInlineDisable(t *testing.T) {
	xml := `<Wix>
  <Component Id="A" /> <!-- winter-disable component-requires-guid -->
  <!-- winter-disable-next-line -->
  <Component Id="B" />
  <!-- winter-disable-next-line rule-one, rule-two -->
  <Component Id="C" />
  <Component Id="D" />
</Wix>`
	doc := parseStr(t, xml)

	if !doc.RuleDisabled("component-requires-guid", 2) {
		t.Error("same-line directive should suppress named rule")
	}
	if doc.RuleDisabled("other-rule", 2) {
		t.Error("same-line directive should not suppress other rules")
	}
	if !doc.RuleDisabled("anything", 4) {
		t.Error("bare next-line directive should suppress all rules")
	}
	if !doc.RuleDisabled("rule-two", 6) {
		t.Error("listed rule should be suppressed on next line")
	}
	if doc.RuleDisabled("rule-three", 6) {
		t.Error("unlisted rule should not be suppressed")
	}
	if doc.RuleDisabled("anything", 7) {
		t.Error("directive must not leak past its line")
	}
	if doc.RuleDisabledForFile("component-requires-guid") {
		t.Error("line directives must not disable for the whole file")
	}
}

func TestFileWideDisable(t *testing.T) {
	doc := parseStr(t, `<!-- winter-disable-file rule-one, rule-two -->
<Wix>
  <Component Id="A" />
</Wix>`)
	if !doc.RuleDisabledForFile("rule-one") || !doc.RuleDisabledForFile("rule-two") {
		t.Error("listed rules should be disabled for the file")
	}
	if doc.RuleDisabledForFile("rule-three") {
		t.Error("unlisted rule should not be disabled")
	}
	if doc.RuleDisabled("rule-one", 3) {
		t.Error("file directive must not register as a line directive")
	}

	for _, xml := range []string{
		`<!-- winter-disable-file -->` + "\n<Wix />",
		`<!-- winter-disable-file all -->` + "\n<Wix />",
	} {
		doc := parseStr(t, xml)
		if !doc.RuleDisabledForFile("anything") {
			t.Errorf("directive in %q should disable every rule", xml)
		}
	}
}
