// Package reflection describes the host-language declarations the type
// checker consumes. The real reflection host lives outside of this module;
// the types here are the handles it produces.
package reflection

import (
	"strings"

	"ngtcb-go/packages/compiler/src/util"
)

// ExpressionKind classifies a host expression by how faithfully its text
// maps onto the value it produces.
type ExpressionKind int

const (
	// ExpressionKindOther is any expression whose value cannot be mapped back
	// to its text character by character (concatenation, identifiers, calls).
	ExpressionKindOther ExpressionKind = iota
	// ExpressionKindStringLiteral is a quoted string literal.
	ExpressionKindStringLiteral
	// ExpressionKindTemplateLiteral is a template literal without substitutions.
	ExpressionKindTemplateLiteral
)

// Expression is a handle to an expression node in a host source file.
type Expression struct {
	File  *util.ParseSourceFile
	Start int
	End   int
	Kind  ExpressionKind
}

// NewExpression creates an Expression covering [start, end) of file.
func NewExpression(file *util.ParseSourceFile, start, end int, kind ExpressionKind) *Expression {
	return &Expression{File: file, Start: start, End: end, Kind: kind}
}

// IsLiteral reports whether the expression text is a literal whose contents
// equal its value.
func (e *Expression) IsLiteral() bool {
	return e.Kind == ExpressionKindStringLiteral || e.Kind == ExpressionKindTemplateLiteral
}

// Text returns the source text of the expression.
func (e *Expression) Text() string {
	return e.File.Content[e.Start:e.End]
}

// Span returns the span of the whole expression.
func (e *Expression) Span() *util.ParseSourceSpan {
	return e.File.Span(e.Start, e.End)
}

// ClassMemberKind is the kind of a class member.
type ClassMemberKind int

const (
	ClassMemberKindProperty ClassMemberKind = iota
	ClassMemberKindMethod
	ClassMemberKindGetter
	ClassMemberKindSetter
)

// ClassMemberAccessLevel is the declared visibility of a class member.
type ClassMemberAccessLevel int

const (
	ClassMemberAccessLevelPublicWritable ClassMemberAccessLevel = iota
	ClassMemberAccessLevelPublicReadonly
	ClassMemberAccessLevelProtected
	ClassMemberAccessLevelPrivate
	ClassMemberAccessLevelEcmaScriptPrivate
)

// ClassMember is a member of a class declaration.
type ClassMember struct {
	Name     string
	Kind     ClassMemberKind
	IsStatic bool
	Access   ClassMemberAccessLevel
	// NameIsStringLiteral is set for members declared with a quoted name,
	// e.g. `'aria-label': string`.
	NameIsStringLiteral bool
	// LiteralType holds the value of a string literal type annotation, e.g.
	// `static ngTemplateGuard_ngIf: 'binding'`. Empty otherwise.
	LiteralType string
	// Type holds the declared type annotation text, if any.
	Type string
}

// IsRestricted reports whether template bindings may not legally write the
// member from outside of the class.
func (m *ClassMember) IsRestricted() bool {
	return m.Access != ClassMemberAccessLevelPublicWritable
}

// TypeParameter is a generic type parameter declared on a class.
type TypeParameter struct {
	Name       string
	Constraint string
	Default    string
}

// ClassDeclaration is a handle to a class in a host source file.
//
// Declarations are compared by identity: two handles denote the same class
// only if they are the same pointer.
type ClassDeclaration struct {
	Name           string
	File           string
	TypeParameters []TypeParameter
	Members        []ClassMember
}

// Member returns the first member with the given name and static-ness.
func (c *ClassDeclaration) Member(name string, static bool) (*ClassMember, bool) {
	for i := range c.Members {
		if c.Members[i].Name == name && c.Members[i].IsStatic == static {
			return &c.Members[i], true
		}
	}
	return nil, false
}

// StaticMembersWithPrefix returns the static members whose name starts with
// prefix, in declaration order.
func (c *ClassDeclaration) StaticMembersWithPrefix(prefix string) []*ClassMember {
	var result []*ClassMember
	for i := range c.Members {
		member := &c.Members[i]
		if member.IsStatic && strings.HasPrefix(member.Name, prefix) {
			result = append(result, member)
		}
	}
	return result
}

// IsGeneric reports whether the class declares type parameters.
func (c *ClassDeclaration) IsGeneric() bool {
	return len(c.TypeParameters) > 0
}

// Reference points at a class declaration, along with the module it was
// most likely imported from.
type Reference struct {
	Node                  *ClassDeclaration
	BestGuessOwningModule string
}

// NewReference creates a Reference to node.
func NewReference(node *ClassDeclaration) Reference {
	return Reference{Node: node}
}

// DebugName returns a human readable name for the referenced class.
func (r Reference) DebugName() string {
	if r.Node == nil {
		return "<nil>"
	}
	if r.BestGuessOwningModule != "" {
		return r.BestGuessOwningModule + "#" + r.Node.Name
	}
	return r.Node.Name
}
