// Package api describes the information model of template type checking: the
// configuration deciding how strictly each kind of binding is checked, where
// a template's text lives, and the metadata handed to type check block
// generation.
package api

import (
	"ngtcb-go/packages/compiler-cli/src/ngtsc/metadata"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/reflection"
	"ngtcb-go/packages/compiler/src/core"
	"ngtcb-go/packages/compiler/src/render3/view"
)

// TemplateId uniquely identifies a type-checked template. It is only ever used as an exact-match
// lookup key for routing diagnostics back to the class that declared the template.
type TemplateId string

// TypeCheckableDirectiveMeta extends the metadata of a directive with the facts needed to type
// check its bindings. It is created once per directive and shared, read-only, by every template
// using the directive.
type TypeCheckableDirectiveMeta struct {
	*metadata.DirectiveMeta
	metadata.DirectiveTypeCheckMeta
	TypeParameters []reflection.TypeParameter
}

var _ view.DirectiveMeta = (*TypeCheckableDirectiveMeta)(nil)

// NewTypeCheckableDirectiveMeta combines the metadata of a directive with its type-check facts.
func NewTypeCheckableDirectiveMeta(meta *metadata.DirectiveMeta, typeCheckMeta metadata.DirectiveTypeCheckMeta) *TypeCheckableDirectiveMeta {
	var params []reflection.TypeParameter
	if node := meta.Ref().Node; node != nil {
		params = append(params, node.TypeParameters...)
	}
	return &TypeCheckableDirectiveMeta{
		DirectiveMeta:          meta,
		DirectiveTypeCheckMeta: typeCheckMeta,
		TypeParameters:         params,
	}
}

// TemplateGuard returns the guard declared for the given input, if any.
func (d *TypeCheckableDirectiveMeta) TemplateGuard(inputName string) (metadata.TemplateGuardMeta, bool) {
	for _, guard := range d.NgTemplateGuards {
		if guard.InputName == inputName {
			return guard, true
		}
	}
	return metadata.TemplateGuardMeta{}, false
}

// TypeCtorFields groups the class fields a type constructor exposes as parameters.
type TypeCtorFields struct {
	Inputs  []string
	Outputs []string
	Queries []string
}

// TypeCtorMetadata is a request for a type constructor: a synthetic function used to infer the
// generic type parameters of a directive from the expressions bound to its inputs.
type TypeCtorMetadata struct {
	// FnName is the name of the type constructor function.
	FnName string
	// Body is true when a function body must be generated; otherwise only a
	// declaration is emitted.
	Body   bool
	Fields TypeCtorFields
	// CoercedInputFields is copied from the directive for locality.
	CoercedInputFields metadata.FieldSet
}

// TypeCheckBlockMetadata is everything needed to generate the type check block of one
// component's template.
type TypeCheckBlockMetadata struct {
	// ID identifies the template for diagnostic routing.
	ID TemplateId

	// BoundTarget is the semantic structure of the template, bound against the directives it uses.
	BoundTarget view.BoundTarget[*TypeCheckableDirectiveMeta]

	// Pipes maps pipe names to the classes implementing them.
	Pipes map[string]reflection.Reference

	// Schemas permitted for the template. They decide whether unknown elements and properties are
	// tolerated.
	Schemas []core.SchemaMetadata

	IsStandalone        bool
	PreserveWhitespaces bool
}

// Pipe returns the class implementing the named pipe.
func (m *TypeCheckBlockMetadata) Pipe(name string) (reflection.Reference, bool) {
	ref, ok := m.Pipes[name]
	return ref, ok
}
