package metadata

import (
	"strings"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/reflection"
)

const (
	templateGuardPrefix   = "ngTemplateGuard_"
	acceptInputTypePrefix = "ngAcceptInputType_"
	contextGuardName      = "ngTemplateContextGuard"
)

// ExtractDirectiveTypeCheckMeta derives the type-check facts of a directive
// from the members of its class declaration and its inputs.
func ExtractDirectiveTypeCheckMeta(node *reflection.ClassDeclaration, inputs *ClassPropertyMapping[InputMapping]) DirectiveTypeCheckMeta {
	var guards []TemplateGuardMeta
	for _, member := range node.StaticMembersWithPrefix(templateGuardPrefix) {
		if guard, ok := extractTemplateGuard(member); ok {
			guards = append(guards, guard)
		}
	}

	hasContextGuard := false
	if member, ok := node.Member(contextGuardName, true); ok && member.Kind == reflection.ClassMemberKindMethod {
		hasContextGuard = true
	}

	var coerced, restricted, stringLiteral, undeclared []string
	for _, member := range node.StaticMembersWithPrefix(acceptInputTypePrefix) {
		if member.Kind == reflection.ClassMemberKindProperty {
			coerced = append(coerced, strings.TrimPrefix(member.Name, acceptInputTypePrefix))
		}
	}

	for _, input := range inputs.All() {
		field, ok := node.Member(input.ClassPropertyName, false)
		if !ok {
			undeclared = append(undeclared, input.ClassPropertyName)
			continue
		}
		if field.IsRestricted() {
			restricted = append(restricted, input.ClassPropertyName)
		}
		if field.NameIsStringLiteral {
			stringLiteral = append(stringLiteral, input.ClassPropertyName)
		}
		if input.HasTransform() {
			coerced = append(coerced, input.ClassPropertyName)
		}
	}

	return DirectiveTypeCheckMeta{
		HasNgTemplateContextGuard: hasContextGuard,
		NgTemplateGuards:          guards,
		CoercedInputFields:        NewFieldSet(coerced...),
		RestrictedInputFields:     NewFieldSet(restricted...),
		StringLiteralInputFields:  NewFieldSet(stringLiteral...),
		UndeclaredInputFields:     NewFieldSet(undeclared...),
		IsGeneric:                 node.IsGeneric(),
	}
}

// extractTemplateGuard reads a `ngTemplateGuard_<input>` static member. A
// property must carry the literal type 'binding'; a method is an invocation
// guard. Anything else is not a guard.
func extractTemplateGuard(member *reflection.ClassMember) (TemplateGuardMeta, bool) {
	inputName := strings.TrimPrefix(member.Name, templateGuardPrefix)
	switch member.Kind {
	case reflection.ClassMemberKindProperty:
		if member.LiteralType != string(TemplateGuardBinding) {
			return TemplateGuardMeta{}, false
		}
		return TemplateGuardMeta{InputName: inputName, Type: TemplateGuardBinding}, true
	case reflection.ClassMemberKindMethod:
		return TemplateGuardMeta{InputName: inputName, Type: TemplateGuardInvocation}, true
	default:
		return TemplateGuardMeta{}, false
	}
}
