// Package xref validates symbol definitions and references across the
// whole file set: duplicate definitions, dangling references, and
// defined-but-unused symbols. It runs strictly after per-file linting.
package xref

import (
	"winter/internal/plugin"
)

// Kind is a cross-file symbol namespace. Definitions and references
// only collide within the same kind.
type Kind uint8

const (
	KindComponent Kind = iota
	KindComponentGroup
	KindFeature
	KindFeatureGroup
	KindDirectory
	KindProperty
	KindCustomAction
	KindBinary
	KindIcon
	KindMedia
	KindVariable
	KindPayload
	KindPayloadGroup
	KindPackageGroup
	KindUI
	KindDialog
	KindFragment
)

// DefinitionElement is the element name that defines a symbol of this
// kind.
func (k Kind) DefinitionElement() string {
	switch k {
	case KindComponent:
		return "Component"
	case KindComponentGroup:
		return "ComponentGroup"
	case KindFeature:
		return "Feature"
	case KindFeatureGroup:
		return "FeatureGroup"
	case KindDirectory:
		return "Directory"
	case KindProperty:
		return "Property"
	case KindCustomAction:
		return "CustomAction"
	case KindBinary:
		return "Binary"
	case KindIcon:
		return "Icon"
	case KindMedia:
		return "Media"
	case KindVariable:
		return "Variable"
	case KindPayload:
		return "Payload"
	case KindPayloadGroup:
		return "PayloadGroup"
	case KindPackageGroup:
		return "PackageGroup"
	case KindUI:
		return "UI"
	case KindDialog:
		return "Dialog"
	case KindFragment:
		return "Fragment"
	}
	return "Unknown"
}

// ReferenceElement is the dedicated Ref element for the kind, or ""
// when the kind has no reference form (those kinds never get unused
// warnings).
func (k Kind) ReferenceElement() string {
	switch k {
	case KindComponent:
		return "ComponentRef"
	case KindComponentGroup:
		return "ComponentGroupRef"
	case KindFeature:
		return "FeatureRef"
	case KindFeatureGroup:
		return "FeatureGroupRef"
	case KindDirectory:
		return "DirectoryRef"
	case KindProperty:
		return "PropertyRef"
	case KindCustomAction:
		return "CustomActionRef"
	case KindVariable:
		return "VariableRef"
	case KindPayload:
		return "PayloadRef"
	case KindPayloadGroup:
		return "PayloadGroupRef"
	case KindPackageGroup:
		return "PackageGroupRef"
	case KindUI:
		return "UIRef"
	case KindDialog:
		return "DialogRef"
	}
	return ""
}

var definitionKinds = map[string]Kind{
	"Component":         KindComponent,
	"ComponentGroup":    KindComponentGroup,
	"Feature":           KindFeature,
	"FeatureGroup":      KindFeatureGroup,
	"Directory":         KindDirectory,
	"StandardDirectory": KindDirectory,
	"Property":          KindProperty,
	"CustomAction":      KindCustomAction,
	"Binary":            KindBinary,
	"Icon":              KindIcon,
	"Media":             KindMedia,
	"Variable":          KindVariable,
	"Payload":           KindPayload,
	"PayloadGroup":      KindPayloadGroup,
	"PackageGroup":      KindPackageGroup,
	"UI":                KindUI,
	"Dialog":            KindDialog,
	"Fragment":          KindFragment,
}

var referenceKinds = map[string]Kind{
	"ComponentRef":      KindComponent,
	"ComponentGroupRef": KindComponentGroup,
	"FeatureRef":        KindFeature,
	"FeatureGroupRef":   KindFeatureGroup,
	"DirectoryRef":      KindDirectory,
	"PropertyRef":       KindProperty,
	"CustomActionRef":   KindCustomAction,
	"VariableRef":       KindVariable,
	"PayloadRef":        KindPayload,
	"PayloadGroupRef":   KindPayloadGroup,
	"PackageGroupRef":   KindPackageGroup,
	"UIRef":             KindUI,
	"DialogRef":         KindDialog,
}

// attrRefs lists attributes that reference symbols of another kind.
type attrRef struct {
	attr string
	kind Kind
}

var attrRefKinds = map[string][]attrRef{
	"File":        {{attr: "Component", kind: KindComponent}},
	"Shortcut":    {{attr: "Directory", kind: KindDirectory}, {attr: "Icon", kind: KindIcon}},
	"Custom":      {{attr: "Action", kind: KindCustomAction}},
	"SetProperty": {{attr: "Id", kind: KindProperty}},
}

// Symbol is one definition site.
type Symbol struct {
	Kind Kind
	ID   string
	Loc  plugin.Location
}

// Reference is one use site; Element names the referring element for
// messages.
type Reference struct {
	Kind    Kind
	ID      string
	Element string
	Loc     plugin.Location
}
