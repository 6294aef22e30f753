package expr

import (
	"testing"

	"winter/internal/wixplug"
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

func evalOn(t *testing.T, xml, element string) *Evaluator {
	t.Helper()
	doc, err := wixplug.New().Parse("test.wxs", []byte(xml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i := 0; i < doc.Len(); i++ {
		if doc.Node(i).Kind() == element {
			return NewEvaluator(doc, i)
		}
	}
	t.Fatalf("element %s not found", element)
	return nil
}

func TestAttributeChecks(t *testing.T) {
	e := evalOn(t, sampleWxs, "Package")
	cases := []struct {
		cond string
		want bool
	}{
		{"attributes.Name", true},
		{"attributes.Missing", false},
		{"!attributes.Missing", true},
		{"!!attributes.Name", true},
		{"attributes.Name === 'Test'", true},
		{"attributes.Name == 'Test'", true},
		{"attributes.Name === 'Other'", false},
		{"attributes.Name !== 'Other'", true},
		{"attributes.Name != 'Other'", true},
		{"attributes.Name !== 'Test'", false},
		{`attributes.Name === "Test"`, true},
	}
	for _, tc := range cases {
		if got := e.Eval(tc.cond); got != tc.want {
			t.Errorf("Eval(%q) = %v, want %v", tc.cond, got, tc.want)
		}
	}
}

func TestEmptyAttributeIsFalsy(t *testing.T) {
	e := evalOn(t, `<Wix><Component Id="C1" Guid="" /></Wix>`, "Component")
	cases := []struct {
		cond string
		want bool
	}{
		{"attributes.Guid", false},
		{"!attributes.Guid", true},
		{"attributes.Guid === ''", true},
		{"attributes.Id", true},
		{"attributes.Guid && attributes.Id", false},
		{"attributes.Guid || attributes.Id", true},
	}
	for _, tc := range cases {
		if got := e.Eval(tc.cond); got != tc.want {
			t.Errorf("Eval(%q) = %v, want %v", tc.cond, got, tc.want)
		}
	}
}

func TestAbsentAttributeIsEmptyNotError(t *testing.T) {
	e := evalOn(t, sampleWxs, "Package")
	if !e.Eval("attributes.Missing === ''") {
		t.Error("absent attribute should compare equal to empty string")
	}
	if e.Eval("attributes.Missing.startsWith('x')") {
		t.Error("method on absent attribute should be false")
	}
}

func TestCompoundOperators(t *testing.T) {
	e := evalOn(t, sampleWxs, "Package")
	cases := []struct {
		cond string
		want bool
	}{
		{"attributes.Name && attributes.Version", true},
		{"attributes.Name && attributes.Missing", false},
		{"attributes.Name || attributes.Missing", true},
		{"attributes.Missing || attributes.Name", true},
		{"attributes.Missing || attributes.NotHere", false},
		// the && split happens first: a && b || c reads a && (b || c)
		{"attributes.Missing && attributes.Name || attributes.Version", false},
		{"attributes.Name && attributes.Missing || attributes.Version", true},
		{"attributes.Name || attributes.Missing && attributes.AlsoMissing", false},
		{"(attributes.Name)", true},
		{"(!attributes.Name)", false},
		{"(attributes.Missing || attributes.Name) && attributes.Version", true},
	}
	for _, tc := range cases {
		if got := e.Eval(tc.cond); got != tc.want {
			t.Errorf("Eval(%q) = %v, want %v", tc.cond, got, tc.want)
		}
	}
}

func TestChildFunctions(t *testing.T) {
	e := evalOn(t, sampleWxs, "Component")
	cases := []struct {
		cond string
		want bool
	}{
		{"countChildren('File') > 1", true},
		{"countChildren('File') > 2", false},
		{"countChildren()", true},
		{"hasChild('File')", true},
		{"hasChild('Registry')", false},
		{"attributes.Id.startsWith('Test')", true},
		{"attributes.Id.startsWith('Other')", false},
		{"attributes.Id.endsWith('Component')", true},
	}
	for _, tc := range cases {
		if got := e.Eval(tc.cond); got != tc.want {
			t.Errorf("Eval(%q) = %v, want %v", tc.cond, got, tc.want)
		}
	}
}

func TestParentExpressions(t *testing.T) {
	e := evalOn(t, sampleWxs, "File")
	if !e.Eval("parent.countChildren('File')") {
		t.Error("parent.countChildren('File') should be true")
	}
	if !e.Eval("parent.name") {
		t.Error("parent.name should be true")
	}

	root := evalOn(t, sampleWxs, "Wix")
	if root.Eval("parent.name") {
		t.Error("root has no parent")
	}
}

func TestGuidFunctions(t *testing.T) {
	e := evalOn(t, sampleWxs, "Component")
	if !e.Eval("isValidGuid(attributes.Guid)") {
		t.Error("Guid=* should validate")
	}
	p := evalOn(t, sampleWxs, "Package")
	if !p.Eval("isValidGuid(attributes.UpgradeCode)") {
		t.Error("UpgradeCode should validate")
	}
	if p.Eval("isValidGuid(attributes.Name)") {
		t.Error("Name is not a GUID")
	}
}

func TestStandardDirectory(t *testing.T) {
	std := evalOn(t, `<Wix><Directory Id="ProgramFilesFolder" /></Wix>`, "Directory")
	if !std.Eval("isStandardDirectory(attributes.Id)") {
		t.Error("ProgramFilesFolder is standard")
	}
	custom := evalOn(t, `<Wix><Directory Id="INSTALLFOLDER" /></Wix>`, "Directory")
	if custom.Eval("isStandardDirectory(attributes.Id)") {
		t.Error("INSTALLFOLDER is not standard")
	}
}

func TestSensitivePropertyName(t *testing.T) {
	e := evalOn(t, `<Wix><Property Id="DATABASE_PASSWORD" /></Wix>`, "Property")
	if !e.Eval("isSensitivePropertyName(attributes.Id)") {
		t.Error("DATABASE_PASSWORD is sensitive")
	}
	plain := evalOn(t, `<Wix><Property Id="INSTALLLEVEL" /></Wix>`, "Property")
	if plain.Eval("isSensitivePropertyName(attributes.Id)") {
		t.Error("INSTALLLEVEL is not sensitive")
	}
}

func TestRegexTest(t *testing.T) {
	e := evalOn(t, `<Wix><Property Id="MY_PROPERTY" /></Wix>`, "Property")
	if !e.Eval("/^[A-Z_]+$/.test(attributes.Id)") {
		t.Error("uppercase pattern should match")
	}
	if e.Eval("/^[a-z]+$/.test(attributes.Id)") {
		t.Error("lowercase pattern should not match")
	}
	// invalid pattern is silently false
	if e.Eval("/[unclosed/.test(attributes.Id)") {
		t.Error("invalid regex must evaluate to false")
	}
}

func TestToUpperCase(t *testing.T) {
	upper := evalOn(t, `<Wix><Property Id="ALLUPPERCASE" /></Wix>`, "Property")
	if !upper.Eval("attributes.Id.toUpperCase()") {
		t.Error("all-uppercase value")
	}
	mixed := evalOn(t, `<Wix><Property Id="MixedCase" /></Wix>`, "Property")
	if mixed.Eval("attributes.Id.toUpperCase()") {
		t.Error("mixed-case value")
	}
}

func TestGetDepth(t *testing.T) {
	e := evalOn(t, sampleWxs, "File")
	if !e.Eval("getDepth() > 3") {
		t.Error("File sits at depth 4")
	}
	if e.Eval("getDepth() > 4") {
		t.Error("File depth is exactly 4")
	}
}

func TestNumericLiteralComparison(t *testing.T) {
	e := evalOn(t, sampleWxs, "Package")
	if !e.Eval("1 === '1'") {
		t.Error("numeric and quoted literal compare as strings")
	}
}

func TestHelpers(t *testing.T) {
	guids := []struct {
		s    string
		want bool
	}{
		{"*", true},
		{"12345678-1234-1234-1234-123456789012", true},
		{"{12345678-1234-1234-1234-123456789012}", true},
		{"(ABCDEF01-2345-6789-ABCD-EF0123456789)", true},
		{"not-a-guid", false},
		{"", false},
	}
	for _, tc := range guids {
		if got := IsValidGuid(tc.s); got != tc.want {
			t.Errorf("IsValidGuid(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}

	if !IsHardcodedPath(`C:\Program Files\App`) {
		t.Error("drive path is hardcoded")
	}
	if IsHardcodedPath(`$(var.SourceDir)\app.exe`) {
		t.Error("variable path is not hardcoded")
	}
	if !LooksLikeDotnetAssembly("App.DLL") {
		t.Error("dll is an assembly")
	}
}
