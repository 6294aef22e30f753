package rules

import "winter/internal/diag"

// Builtin returns the built-in WiX rule set. Messages interpolate
// {attributes.X}, {name} and {kind} when the rule fires.
func Builtin() []*Rule {
	return []*Rule{
		New(
			"binary-requires-id",
			"!attributes.Id",
			"Binary is missing Id attribute",
		).WithSeverity(diag.SevError).WithTarget("Binary").WithTag("required"),

		New(
			"binary-requires-sourcefile",
			"!attributes.SourceFile",
			"Binary is missing SourceFile attribute",
		).WithSeverity(diag.SevError).WithTarget("Binary").WithTag("required"),

		New(
			"bundle-requires-upgradecode",
			"!attributes.UpgradeCode",
			"Bundle is missing UpgradeCode attribute",
		).WithSeverity(diag.SevError).WithTarget("Bundle").WithTag("required"),

		New(
			"chain-disable-rollback",
			"attributes.DisableRollback === 'yes'",
			"Chain has rollback disabled - failed installs cannot be rolled back",
		).WithTarget("Chain").WithCategory(CategorySuspicious).WithTag("awareness"),

		New(
			"component-requires-id",
			"!attributes.Id",
			"Component is missing Id attribute",
		).WithSeverity(diag.SevError).WithTarget("Component").WithTag("required"),

		New(
			"component-requires-guid",
			"!attributes.Guid",
			"Component '{attributes.Id}' is missing Guid attribute",
		).WithTarget("Component").
			WithHelp("Add Guid=\"*\" to let the toolset generate a stable GUID").
			WithTag("best-practice"),

		New(
			"component-empty-guid",
			"attributes.Guid === ''",
			"Component '{attributes.Id}' has empty Guid - use '*' for auto-generation or specify a GUID",
		).WithSeverity(diag.SevError).WithTarget("Component").WithTag("validation"),

		New(
			"component-guid-hardcoded",
			"attributes.Guid && attributes.Guid !== '*' && isValidGuid(attributes.Guid)",
			"Component '{attributes.Id}' has a hardcoded Guid - use '*' for auto-generation",
		).WithTarget("Component").WithCategory(CategoryStyle).
			WithHelp("Auto-generated GUIDs stay stable per component key path and avoid copy-paste duplicates").
			WithTag("best-practice"),

		New(
			"component-invalid-guid",
			"attributes.Guid && attributes.Guid !== '*' && !isValidGuid(attributes.Guid)",
			"Component '{attributes.Id}' has malformed Guid '{attributes.Guid}'",
		).WithSeverity(diag.SevError).WithTarget("Component").WithTag("validation"),

		New(
			"component-id-prefix",
			"attributes.Id && !/^(cmp|Cmp|CMP)/.test(attributes.Id)",
			"Component Id '{attributes.Id}' - consider using 'cmp' or 'Cmp' prefix for clarity",
		).WithSeverity(diag.SevInfo).WithTarget("Component").
			WithCategory(CategoryStyle).WithTag("naming"),

		New(
			"component-multiple-files",
			"countChildren('File') > 1",
			"Component '{attributes.Id}' contains multiple files - one file per component enables correct repair and patching",
		).WithSeverity(diag.SevInfo).WithTarget("Component").
			WithCategory(CategoryPedantic).WithTag("best-practice"),

		New(
			"component-permanent",
			"attributes.Permanent === 'yes'",
			"Component '{attributes.Id}' is marked Permanent - files will not be removed on uninstall",
		).WithSeverity(diag.SevInfo).WithTarget("Component").
			WithCategory(CategorySuspicious).WithTag("awareness"),

		New(
			"component-shared",
			"attributes.Shared === 'yes'",
			"Component '{attributes.Id}' is marked Shared - ensure proper reference counting",
		).WithSeverity(diag.SevInfo).WithTarget("Component").
			WithCategory(CategorySuspicious).WithTag("awareness"),

		New(
			"customaction-requires-id",
			"!attributes.Id",
			"CustomAction is missing Id attribute",
		).WithSeverity(diag.SevError).WithTarget("CustomAction").WithTag("required"),

		New(
			"directory-requires-id",
			"!attributes.Id",
			"Directory is missing Id attribute",
		).WithSeverity(diag.SevError).WithTarget("Directory").WithTag("required"),

		New(
			"directory-uppercase-id",
			"/^[a-z]/.test(attributes.Id)",
			"Directory Id '{attributes.Id}' should start with an uppercase letter",
		).WithSeverity(diag.SevInfo).WithTarget("Directory").
			WithCategory(CategoryStyle).WithTag("naming"),

		New(
			"directory-nonstandard-parent",
			"isStandardDirectory(attributes.Id)",
			"Standard directory '{attributes.Id}' should not be nested under another Directory",
		).WithTarget("Directory").WithParent("Directory").
			WithCategory(CategorySuspicious).
			WithHelp("Standard directories are resolved by the installer; redefine them at the top level or reference them directly"),

		New(
			"file-requires-source",
			"!attributes.Source",
			"File is missing Source attribute",
		).WithSeverity(diag.SevError).WithTarget("File").WithTag("required"),

		New(
			"file-hardcoded-path",
			`/^[A-Za-z]:\\/.test(attributes.Source)`,
			"File '{attributes.Id}' has hardcoded path in Source - use variables like $(var.SourceDir)",
		).WithTarget("File").WithCategory(CategoryPortability).WithTag("portability"),

		New(
			"icon-requires-sourcefile",
			"!attributes.SourceFile",
			"Icon is missing SourceFile attribute",
		).WithSeverity(diag.SevError).WithTarget("Icon").WithTag("required"),

		New(
			"package-requires-manufacturer",
			"!attributes.Manufacturer",
			"Package is missing Manufacturer attribute",
		).WithSeverity(diag.SevError).WithTarget("Package").WithTag("required"),

		New(
			"package-requires-name",
			"!attributes.Name",
			"Package is missing Name attribute",
		).WithSeverity(diag.SevError).WithTarget("Package").WithTag("required"),

		New(
			"package-requires-upgradecode",
			"!attributes.UpgradeCode",
			"Package is missing UpgradeCode attribute - required for upgrades",
		).WithSeverity(diag.SevError).WithTarget("Package").
			WithTag("required").WithTag("upgrade"),

		New(
			"package-requires-version",
			"!attributes.Version",
			"Package is missing Version attribute",
		).WithTarget("Package").WithTag("recommended"),

		New(
			"property-sensitive-name",
			"isSensitivePropertyName(attributes.Id) && !attributes.Hidden",
			"Property '{attributes.Id}' looks sensitive - mark it Hidden=\"yes\" to keep it out of logs",
		).WithTarget("Property").WithCategory(CategorySecurity).WithTag("security"),

		New(
			"property-lowercase-id",
			"attributes.Id && !attributes.Id.toUpperCase()",
			"Public property '{attributes.Id}' should be all uppercase to survive the UI/execute boundary",
		).WithSeverity(diag.SevInfo).WithTarget("Property").
			WithCategory(CategoryStyle).WithTag("naming"),

		New(
			"registryvalue-requires-type",
			"!attributes.Type",
			"RegistryValue is missing Type attribute",
		).WithTarget("RegistryValue").
			WithFix(FixSuggestion{
				Action:      "addAttribute",
				Attribute:   "Type",
				Value:       "string",
				Description: "Add Type=\"string\"",
			}).
			WithTag("recommended"),

		New(
			"shortcut-requires-id",
			"!attributes.Id",
			"Shortcut is missing Id attribute",
		).WithSeverity(diag.SevError).WithTarget("Shortcut").WithTag("required"),

		New(
			"shortcut-requires-name",
			"!attributes.Name",
			"Shortcut is missing Name attribute",
		).WithSeverity(diag.SevError).WithTarget("Shortcut").WithTag("required"),

		New(
			"shortcut-requires-directory",
			"!attributes.Directory",
			"Shortcut '{attributes.Id}' is missing Directory attribute",
		).WithTarget("Shortcut").WithTag("recommended"),

		New(
			"shortcut-requires-workingdirectory",
			"!attributes.WorkingDirectory",
			"Shortcut '{attributes.Id}' has no WorkingDirectory - target may start in System32",
		).WithSeverity(diag.SevInfo).WithTarget("Shortcut").
			WithCategory(CategoryPedantic).WithTag("awareness"),

		New(
			"condition-property-brackets",
			"/\\[[A-Z]/.test(attributes.Condition)",
			"Condition references a property with brackets - use the plain property name",
		).WithCategory(CategorySuspicious).WithTag("condition"),
	}
}
