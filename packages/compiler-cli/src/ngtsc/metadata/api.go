// Package metadata holds the statically resolved metadata of directives and
// pipes, and the extraction of the facts the template type checker needs
// beyond it.
package metadata

import (
	"sort"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/reflection"
	"ngtcb-go/packages/compiler/src/render3/view"
)

// DirectiveDecl is the resolved content of a directive or component decorator.
type DirectiveDecl struct {
	Selector     *string
	IsComponent  bool
	IsStructural bool
	IsStandalone bool
	Inputs       []InputMapping
	Outputs      []OutputMapping
	// Queries lists the class properties populated by content queries.
	Queries  []string
	ExportAs []string
}

// DirectiveMeta is the metadata of a directive or component, keyed by the
// class that declares it. It is immutable once created.
type DirectiveMeta struct {
	ref     reflection.Reference
	decl    DirectiveDecl
	inputs  *ClassPropertyMapping[InputMapping]
	outputs *ClassPropertyMapping[OutputMapping]
}

var _ view.DirectiveMeta = (*DirectiveMeta)(nil)

// NewDirectiveMeta creates the metadata of the directive declared by ref.
func NewDirectiveMeta(ref reflection.Reference, decl DirectiveDecl) *DirectiveMeta {
	decl.Queries = append([]string(nil), decl.Queries...)
	decl.ExportAs = append([]string(nil), decl.ExportAs...)
	return &DirectiveMeta{
		ref:     ref,
		decl:    decl,
		inputs:  NewClassPropertyMapping(decl.Inputs...),
		outputs: NewClassPropertyMapping(decl.Outputs...),
	}
}

// Ref returns the reference to the directive class.
func (d *DirectiveMeta) Ref() reflection.Reference { return d.ref }

func (d *DirectiveMeta) Name() string {
	if d.ref.Node == nil {
		return ""
	}
	return d.ref.Node.Name
}

func (d *DirectiveMeta) Selector() *string  { return d.decl.Selector }
func (d *DirectiveMeta) IsComponent() bool  { return d.decl.IsComponent }
func (d *DirectiveMeta) IsStructural() bool { return d.decl.IsStructural }
func (d *DirectiveMeta) IsStandalone() bool { return d.decl.IsStandalone }
func (d *DirectiveMeta) ExportAs() []string { return append([]string(nil), d.decl.ExportAs...) }

func (d *DirectiveMeta) Inputs() view.InputOutputPropertySet  { return d.inputs }
func (d *DirectiveMeta) Outputs() view.InputOutputPropertySet { return d.outputs }

// InputMappings returns the typed input mapping.
func (d *DirectiveMeta) InputMappings() *ClassPropertyMapping[InputMapping] { return d.inputs }

// OutputMappings returns the typed output mapping.
func (d *DirectiveMeta) OutputMappings() *ClassPropertyMapping[OutputMapping] { return d.outputs }

// Queries returns the class properties populated by content queries.
func (d *DirectiveMeta) Queries() []string { return append([]string(nil), d.decl.Queries...) }

// PipeMeta is the metadata of a pipe.
type PipeMeta struct {
	Ref          reflection.Reference
	Name         string
	IsStandalone bool
	IsPure       bool
}

// TemplateGuardType is the kind of narrowing a template guard performs.
type TemplateGuardType string

const (
	// TemplateGuardInvocation narrows the input through a type predicate
	// method, `static ngTemplateGuard_ngIf<T>(dir, expr): expr is T`.
	TemplateGuardInvocation TemplateGuardType = "invocation"
	// TemplateGuardBinding narrows the template context to the type of the
	// bound expression itself, `static ngTemplateGuard_ngIf: 'binding'`.
	TemplateGuardBinding TemplateGuardType = "binding"
)

// TemplateGuardMeta describes how a structural directive narrows the type of
// one of its inputs.
type TemplateGuardMeta struct {
	InputName string
	Type      TemplateGuardType
}

// FieldSet is an immutable, sorted set of class property names.
type FieldSet []string

// NewFieldSet creates a set holding names.
func NewFieldSet(names ...string) FieldSet {
	seen := make(map[string]struct{}, len(names))
	set := make(FieldSet, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		set = append(set, name)
	}
	sort.Strings(set)
	return set
}

// Has reports whether name is in the set.
func (s FieldSet) Has(name string) bool {
	idx := sort.SearchStrings(s, name)
	return idx < len(s) && s[idx] == name
}

// DirectiveTypeCheckMeta holds the facts about a directive class that are
// needed to type its bindings, beyond its decorator metadata.
type DirectiveTypeCheckMeta struct {
	// HasNgTemplateContextGuard is true when the class declares a static
	// `ngTemplateContextGuard` method narrowing its template context.
	HasNgTemplateContextGuard bool
	NgTemplateGuards          []TemplateGuardMeta
	// CoercedInputFields are inputs whose bound values are converted before
	// assignment: those with a static `ngAcceptInputType_` member or a
	// transform function.
	CoercedInputFields FieldSet
	// RestrictedInputFields are inputs declared private, protected or readonly.
	RestrictedInputFields FieldSet
	// StringLiteralInputFields are inputs whose class member name is a string
	// literal and must be accessed with bracket notation.
	StringLiteralInputFields FieldSet
	// UndeclaredInputFields are inputs without a matching class member.
	UndeclaredInputFields FieldSet
	IsGeneric             bool
}
