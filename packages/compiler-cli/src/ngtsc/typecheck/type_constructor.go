package typecheck

import (
	"ngtcb-go/packages/compiler-cli/src/ngtsc/metadata"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck/api"
)

// DefaultTypeCtorName is the name given to type constructors when the caller does not pick one.
const DefaultTypeCtorName = "ngTypeCtor"

// NewTypeCtorRequest describes the type constructor of dir.
//
// A body is only requested for generic directives, whose type arguments must be inferred from the
// bound expressions. For any other directive the request is still valid and asks for a declaration
// only.
func NewTypeCtorRequest(dir *api.TypeCheckableDirectiveMeta, fnName string) *api.TypeCtorMetadata {
	if fnName == "" {
		fnName = DefaultTypeCtorName
	}
	return &api.TypeCtorMetadata{
		FnName: fnName,
		Body:   dir.IsGeneric,
		Fields: api.TypeCtorFields{
			Inputs:  dir.InputMappings().ClassPropertyNames(),
			Outputs: dir.OutputMappings().ClassPropertyNames(),
			Queries: dir.Queries(),
		},
		CoercedInputFields: metadata.NewFieldSet(dir.CoercedInputFields...),
	}
}

// RequiresTypeCtor reports whether a template binding dir must go through a type constructor to
// obtain the directive's type.
func RequiresTypeCtor(dir *api.TypeCheckableDirectiveMeta) bool {
	return dir.IsGeneric
}
