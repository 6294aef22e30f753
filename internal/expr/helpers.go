package expr

import (
	"regexp"
	"strings"
)

// Standard Windows Installer directory IDs. These exist in every
// installation session, so a reference to one never needs a definition.
var standardDirectories = map[string]struct{}{
	"TARGETDIR":              {},
	"ProgramFilesFolder":     {},
	"ProgramFiles64Folder":   {},
	"ProgramFiles6432Folder": {},
	"CommonFilesFolder":      {},
	"CommonFiles64Folder":    {},
	"CommonFiles6432Folder":  {},
	"SystemFolder":           {},
	"System64Folder":         {},
	"System6432Folder":       {},
	"WindowsFolder":          {},
	"TempFolder":             {},
	"AppDataFolder":          {},
	"LocalAppDataFolder":     {},
	"ProgramMenuFolder":      {},
	"DesktopFolder":          {},
	"StartMenuFolder":        {},
	"StartupFolder":          {},
	"FontsFolder":            {},
	"PersonalFolder":         {},
	"CommonAppDataFolder":    {},
	"AdminToolsFolder":       {},
	"FavoritesFolder":        {},
	"NetHoodFolder":          {},
	"PrintHoodFolder":        {},
	"RecentFolder":           {},
	"SendToFolder":           {},
	"TemplateFolder":         {},
}

var sensitivePatterns = []string{
	"password", "secret", "key", "token", "credential", "apikey", "api_key",
}

var (
	guidRe          = regexp.MustCompile(`^[{(]?[0-9A-Fa-f]{8}-?([0-9A-Fa-f]{4}-?){3}[0-9A-Fa-f]{12}[)}]?$`)
	hardcodedPathRe = regexp.MustCompile(`^[A-Za-z]:\\`)
)

// IsValidGuid accepts standard GUID forms and the "*" auto-GUID marker.
func IsValidGuid(s string) bool {
	if s == "*" {
		return true
	}
	return guidRe.MatchString(s)
}

// IsStandardDirectory reports whether id is a built-in installer directory.
func IsStandardDirectory(id string) bool {
	_, ok := standardDirectories[id]
	return ok
}

// IsSensitivePropertyName reports whether the name suggests a secret.
func IsSensitivePropertyName(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range sensitivePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsHardcodedPath matches drive-letter absolute paths like C:\.
func IsHardcodedPath(s string) bool {
	return hardcodedPathRe.MatchString(s)
}

// LooksLikeDotnetAssembly reports whether a filename has an assembly
// extension.
func LooksLikeDotnetAssembly(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".dll") || strings.HasSuffix(lower, ".exe")
}
