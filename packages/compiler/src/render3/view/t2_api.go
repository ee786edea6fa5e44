package view

/*
 * t2 data is utilized by the template type-checking facilities to understand a template enough
 * to generate type-checking code for it. The binder producing it is a collaborator of the type
 * checker; only the surface the type checker consumes is described here.
 */

// Target represents a logical target for analysis: a template identified by the component
// class that declares it.
type Target struct {
	// ComponentName is the name of the component class, used for debugging.
	ComponentName string
}

// InputOutputPropertySet is a data structure which can indicate whether a given property name is present or not.
//
// This is used to represent the set of inputs or outputs present on a directive, and allows the
// binder to query for the presence of a mapping for property names.
type InputOutputPropertySet interface {
	HasBindingPropertyName(propertyName string) bool
}

// DirectiveMeta represents metadata regarding a directive that's needed to match it against template elements.
// This is provided by a consumer of the t2 APIs.
type DirectiveMeta interface {
	// Name returns the name of the directive class (used for debugging).
	Name() string

	// Selector returns the selector for the directive or `nil` if there isn't one.
	Selector() *string

	// IsComponent returns whether the directive is a component.
	IsComponent() bool

	// Inputs returns the set of inputs which this directive claims.
	Inputs() InputOutputPropertySet

	// Outputs returns the set of outputs which this directive claims.
	Outputs() InputOutputPropertySet

	// ExportAs returns the names under which the directive is exported, if any.
	ExportAs() []string

	// IsStructural returns whether the directive is a structural directive (e.g. `<div *ngIf></div>`).
	IsStructural() bool
}

// BoundTarget represents the result of performing the binding operation against a `Target`.
//
// The original `Target` is accessible, as well as a suite of methods for extracting binding
// information regarding the `Target`.
type BoundTarget[D DirectiveMeta] interface {
	// Target returns the original `Target` that was bound.
	Target() *Target

	// GetUsedDirectives returns a list of all the directives used by the target,
	// including directives from `@defer` blocks.
	GetUsedDirectives() []D

	// GetEagerlyUsedDirectives returns a list of eagerly used directives from the target.
	// Note: this list *excludes* directives from `@defer` blocks.
	GetEagerlyUsedDirectives() []D

	// GetUsedPipes returns a list of all the pipes used by the target,
	// including pipes from `@defer` blocks.
	GetUsedPipes() []string
}
