package typecheck_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/metadata"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/reflection"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck"
	"ngtcb-go/packages/compiler/src/render3/view"
	"ngtcb-go/packages/compiler/src/util"
)

func selector(s string) *string { return &s }

// ngIf declares a generic structural directive with a binding guard and a context guard.
func ngIf() *metadata.DirectiveMeta {
	node := &reflection.ClassDeclaration{
		Name:           "NgIf",
		File:           "ng_if.ts",
		TypeParameters: []reflection.TypeParameter{{Name: "T", Default: "any"}},
		Members: []reflection.ClassMember{
			{Name: "ngIf", Kind: reflection.ClassMemberKindSetter},
			{Name: "ngIfElse", Kind: reflection.ClassMemberKindSetter},
			{Name: "ngTemplateGuard_ngIf", Kind: reflection.ClassMemberKindProperty, IsStatic: true, LiteralType: "binding"},
			{Name: "ngTemplateContextGuard", Kind: reflection.ClassMemberKindMethod, IsStatic: true},
		},
	}
	return metadata.NewDirectiveMeta(reflection.Reference{Node: node, BestGuessOwningModule: "@angular/common"}, metadata.DirectiveDecl{
		Selector:     selector("[ngIf]"),
		IsStructural: true,
		IsStandalone: true,
		Inputs: []metadata.InputMapping{
			{ClassPropertyName: "ngIf", BindingPropertyName: "ngIf"},
			{ClassPropertyName: "ngIfElse", BindingPropertyName: "ngIfElse"},
		},
	})
}

// tooltip declares a plain attribute directive.
func tooltip() *metadata.DirectiveMeta {
	node := &reflection.ClassDeclaration{
		Name: "TooltipDir",
		File: "tooltip.ts",
		Members: []reflection.ClassMember{
			{Name: "text", Kind: reflection.ClassMemberKindProperty},
			{Name: "delay", Kind: reflection.ClassMemberKindProperty, Access: reflection.ClassMemberAccessLevelProtected},
			{Name: "ngAcceptInputType_delay", Kind: reflection.ClassMemberKindProperty, IsStatic: true},
		},
	}
	return metadata.NewDirectiveMeta(reflection.NewReference(node), metadata.DirectiveDecl{
		Selector: selector("[tooltip]"),
		Inputs: []metadata.InputMapping{
			{ClassPropertyName: "text", BindingPropertyName: "tooltip"},
			{ClassPropertyName: "delay", BindingPropertyName: "tooltipDelay"},
		},
		Outputs: []metadata.OutputMapping{{ClassPropertyName: "shown", BindingPropertyName: "tooltipShown"}},
		Queries: []string{"anchor"},
	})
}

// unregistered is a directive class for which no registry holds metadata.
func unregistered(name string) *metadata.DirectiveMeta {
	return metadata.NewDirectiveMeta(reflection.NewReference(&reflection.ClassDeclaration{Name: name}), metadata.DirectiveDecl{})
}

func pipe(name, class string) *metadata.PipeMeta {
	return &metadata.PipeMeta{
		Ref:    reflection.NewReference(&reflection.ClassDeclaration{Name: class}),
		Name:   name,
		IsPure: true,
	}
}

// inlineUnit declares a component with an inline literal template in file.
func inlineUnit(class, file, template string, eager, deferred []*metadata.DirectiveMeta, pipes ...*metadata.PipeMeta) *typecheck.ComponentUnit {
	node := &reflection.ClassDeclaration{Name: class, File: file}
	literal := "`" + template + "`"
	host := util.NewParseSourceFile(literal, file)
	var pipeNames []string
	for _, p := range pipes {
		pipeNames = append(pipeNames, p.Name)
	}
	return &typecheck.ComponentUnit{
		Ref: reflection.NewReference(node),
		Template: &typecheck.TemplateDeclaration{
			ComponentClass: node,
			Expression:     reflection.NewExpression(host, 0, len(literal), reflection.ExpressionKindTemplateLiteral),
			IsInline:       true,
			Template:       template,
		},
		BoundTarget: view.NewStaticBoundTarget(&view.Target{ComponentName: class}, eager, deferred, pipeNames),
		Pipes:       pipes,
	}
}

// externalUnit declares a component whose template lives at templateURL.
func externalUnit(class, file, templateURL string, eager []*metadata.DirectiveMeta) *typecheck.ComponentUnit {
	node := &reflection.ClassDeclaration{Name: class, File: file}
	quoted := "'" + templateURL + "'"
	host := util.NewParseSourceFile(quoted, file)
	return &typecheck.ComponentUnit{
		Ref: reflection.NewReference(node),
		Template: &typecheck.TemplateDeclaration{
			ComponentClass: node,
			Expression:     reflection.NewExpression(host, 0, len(quoted), reflection.ExpressionKindStringLiteral),
			TemplateURL:    templateURL,
		},
		BoundTarget: view.NewStaticBoundTarget(&view.Target{ComponentName: class}, eager, nil, nil),
	}
}

// writeTemplate writes content to a temporary file and returns its URL.
func writeTemplate(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return "file://" + path
}
