package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/metadata"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/reflection"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck"
	"ngtcb-go/packages/compiler/src/core"
	"ngtcb-go/packages/compiler/src/render3/view"
	"ngtcb-go/packages/compiler/src/util"
)

// Manifest lists the declarations of a project, as produced by a prior analysis step.
type Manifest struct {
	Directives []DirectiveEntry `yaml:"directives"`
	Pipes      []PipeEntry      `yaml:"pipes"`
	Components []ComponentEntry `yaml:"components"`
}

type MemberEntry struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Static      bool   `yaml:"static"`
	Access      string `yaml:"access"`
	QuotedName  bool   `yaml:"quotedName"`
	LiteralType string `yaml:"literalType"`
	Type        string `yaml:"type"`
}

type TypeParameterEntry struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint"`
	Default    string `yaml:"default"`
}

type DirectiveEntry struct {
	Class          string                   `yaml:"class"`
	File           string                   `yaml:"file"`
	Module         string                   `yaml:"module"`
	Selector       string                   `yaml:"selector"`
	Component      bool                     `yaml:"component"`
	Structural     bool                     `yaml:"structural"`
	Standalone     bool                     `yaml:"standalone"`
	Inputs         []metadata.InputMapping  `yaml:"inputs"`
	Outputs        []metadata.OutputMapping `yaml:"outputs"`
	Queries        []string                 `yaml:"queries"`
	ExportAs       []string                 `yaml:"exportAs"`
	TypeParameters []TypeParameterEntry     `yaml:"typeParameters"`
	Members        []MemberEntry            `yaml:"members"`
}

type PipeEntry struct {
	Name       string `yaml:"name"`
	Class      string `yaml:"class"`
	File       string `yaml:"file"`
	Standalone bool   `yaml:"standalone"`
	Impure     bool   `yaml:"impure"`
}

type ComponentEntry struct {
	Class string `yaml:"class"`
	File  string `yaml:"file"`
	// Template is an inline template. TemplateExpression, when set, is the non-literal host
	// expression producing it.
	Template           string   `yaml:"template"`
	TemplateExpression string   `yaml:"templateExpression"`
	TemplateURL        string   `yaml:"templateUrl"`
	Directives         []string `yaml:"directives"`
	DeferredDirectives []string `yaml:"deferredDirectives"`
	Pipes              []string `yaml:"pipes"`
	Schemas            []string `yaml:"schemas"`
	Standalone         bool     `yaml:"standalone"`
	PreserveWhitespace bool     `yaml:"preserveWhitespaces"`
}

// Project is a manifest resolved into the inputs of type check block assembly.
type Project struct {
	Registry *typecheck.DirectiveRegistry
	Units    []*typecheck.ComponentUnit
	// Directives holds the metadata of every declared directive, by class name.
	Directives map[string]*metadata.DirectiveMeta
}

// LoadManifest reads a yaml manifest.
func LoadManifest(ctx context.Context, URL string) (*Manifest, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load manifest: %v", URL)
	}
	manifest := &Manifest{}
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest: %v", URL)
	}
	return manifest, nil
}

// Build resolves the manifest. Relative template URLs are resolved against baseURL.
//
// Components may name directives that are not declared; those resolve to classes without metadata
// so that assembly reports them.
func (m *Manifest) Build(baseURL string) (*Project, error) {
	classes := map[string]*reflection.ClassDeclaration{}
	classOf := func(name, file string) *reflection.ClassDeclaration {
		if decl, ok := classes[name]; ok {
			return decl
		}
		decl := &reflection.ClassDeclaration{Name: name, File: file}
		classes[name] = decl
		return decl
	}

	project := &Project{
		Registry:   typecheck.NewDirectiveRegistry(),
		Directives: map[string]*metadata.DirectiveMeta{},
	}
	for _, entry := range m.Directives {
		decl := classOf(entry.Class, entry.File)
		members, err := entry.members()
		if err != nil {
			return nil, errors.Wrapf(err, "directive %s", entry.Class)
		}
		decl.Members = members
		for _, param := range entry.TypeParameters {
			decl.TypeParameters = append(decl.TypeParameters, reflection.TypeParameter(param))
		}
		ref := reflection.Reference{Node: decl, BestGuessOwningModule: entry.Module}
		var selector *string
		if entry.Selector != "" {
			selector = &entry.Selector
		}
		meta := metadata.NewDirectiveMeta(ref, metadata.DirectiveDecl{
			Selector:     selector,
			IsComponent:  entry.Component,
			IsStructural: entry.Structural,
			IsStandalone: entry.Standalone,
			Inputs:       entry.Inputs,
			Outputs:      entry.Outputs,
			Queries:      entry.Queries,
			ExportAs:     entry.ExportAs,
		})
		project.Registry.Register(meta)
		project.Directives[entry.Class] = meta
	}

	pipesByClass := map[string]*metadata.PipeMeta{}
	for _, entry := range m.Pipes {
		pipesByClass[entry.Class] = &metadata.PipeMeta{
			Ref:          reflection.NewReference(classOf(entry.Class, entry.File)),
			Name:         entry.Name,
			IsStandalone: entry.Standalone,
			IsPure:       !entry.Impure,
		}
	}

	for _, entry := range m.Components {
		unit, err := entry.unit(baseURL, classOf, project.Directives, pipesByClass)
		if err != nil {
			return nil, errors.Wrapf(err, "component %s", entry.Class)
		}
		project.Units = append(project.Units, unit)
	}
	return project, nil
}

func (e *ComponentEntry) unit(
	baseURL string,
	classOf func(name, file string) *reflection.ClassDeclaration,
	directives map[string]*metadata.DirectiveMeta,
	pipes map[string]*metadata.PipeMeta,
) (*typecheck.ComponentUnit, error) {
	decl := classOf(e.Class, e.File)
	template, err := e.templateDeclaration(decl, baseURL)
	if err != nil {
		return nil, err
	}

	lookup := func(names []string) []*metadata.DirectiveMeta {
		var result []*metadata.DirectiveMeta
		for _, name := range names {
			meta, ok := directives[name]
			if !ok {
				// Not declared: a class without metadata.
				meta = metadata.NewDirectiveMeta(reflection.NewReference(classOf(name, "")), metadata.DirectiveDecl{})
			}
			result = append(result, meta)
		}
		return result
	}
	var usedPipes []string
	var pipeMetas []*metadata.PipeMeta
	for _, class := range e.Pipes {
		pipe, ok := pipes[class]
		if !ok {
			return nil, errors.Errorf("unknown pipe class %s", class)
		}
		pipeMetas = append(pipeMetas, pipe)
		usedPipes = append(usedPipes, pipe.Name)
	}
	var schemas []core.SchemaMetadata
	for _, name := range e.Schemas {
		schema, err := core.LookupSchema(name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, schema)
	}

	target := &view.Target{ComponentName: e.Class}
	return &typecheck.ComponentUnit{
		Ref:                 reflection.NewReference(decl),
		Template:            template,
		BoundTarget:         view.NewStaticBoundTarget(target, lookup(e.Directives), lookup(e.DeferredDirectives), usedPipes),
		Pipes:               pipeMetas,
		Schemas:             schemas,
		IsStandalone:        e.Standalone,
		PreserveWhitespaces: e.PreserveWhitespace,
	}, nil
}

// templateDeclaration synthesizes the host expression declaring the template: a quoted literal,
// the given non-literal expression, or the quoted template URL.
func (e *ComponentEntry) templateDeclaration(decl *reflection.ClassDeclaration, baseURL string) (*typecheck.TemplateDeclaration, error) {
	switch {
	case e.TemplateURL != "":
		quoted := fmt.Sprintf("'%s'", e.TemplateURL)
		templateURL := e.TemplateURL
		if url.IsRelative(templateURL) && baseURL != "" {
			templateURL = url.JoinUNC(baseURL, templateURL)
		}
		return &typecheck.TemplateDeclaration{
			ComponentClass: decl,
			Expression:     hostExpression(e.File, quoted, reflection.ExpressionKindStringLiteral),
			TemplateURL:    templateURL,
		}, nil
	case e.TemplateExpression != "":
		return &typecheck.TemplateDeclaration{
			ComponentClass: decl,
			Expression:     hostExpression(e.File, e.TemplateExpression, reflection.ExpressionKindOther),
			IsInline:       true,
			Template:       e.Template,
		}, nil
	case e.Template != "":
		return &typecheck.TemplateDeclaration{
			ComponentClass: decl,
			Expression:     hostExpression(e.File, "`"+e.Template+"`", reflection.ExpressionKindTemplateLiteral),
			IsInline:       true,
			Template:       e.Template,
		}, nil
	}
	return nil, errors.New("neither template nor templateUrl is set")
}

func hostExpression(fileName, text string, kind reflection.ExpressionKind) *reflection.Expression {
	return reflection.NewExpression(util.NewParseSourceFile(text, fileName), 0, len(text), kind)
}

func (e *DirectiveEntry) members() ([]reflection.ClassMember, error) {
	members := make([]reflection.ClassMember, 0, len(e.Members))
	for _, entry := range e.Members {
		kind, err := parseMemberKind(entry.Kind)
		if err != nil {
			return nil, err
		}
		access, err := parseAccessLevel(entry.Access)
		if err != nil {
			return nil, err
		}
		members = append(members, reflection.ClassMember{
			Name:                entry.Name,
			Kind:                kind,
			IsStatic:            entry.Static,
			Access:              access,
			NameIsStringLiteral: entry.QuotedName,
			LiteralType:         entry.LiteralType,
			Type:                entry.Type,
		})
	}
	return members, nil
}

func parseMemberKind(kind string) (reflection.ClassMemberKind, error) {
	switch strings.ToLower(kind) {
	case "", "property":
		return reflection.ClassMemberKindProperty, nil
	case "method":
		return reflection.ClassMemberKindMethod, nil
	case "getter":
		return reflection.ClassMemberKindGetter, nil
	case "setter":
		return reflection.ClassMemberKindSetter, nil
	}
	return 0, errors.Errorf("unknown member kind %q", kind)
}

func parseAccessLevel(access string) (reflection.ClassMemberAccessLevel, error) {
	switch strings.ToLower(access) {
	case "", "public":
		return reflection.ClassMemberAccessLevelPublicWritable, nil
	case "readonly":
		return reflection.ClassMemberAccessLevelPublicReadonly, nil
	case "protected":
		return reflection.ClassMemberAccessLevelProtected, nil
	case "private":
		return reflection.ClassMemberAccessLevelPrivate, nil
	case "#private":
		return reflection.ClassMemberAccessLevelEcmaScriptPrivate, nil
	}
	return 0, errors.Errorf("unknown access level %q", access)
}

// manifestBaseURL returns the location relative template URLs are resolved against.
func manifestBaseURL(manifestURL string) string {
	parent, _ := url.Split(manifestURL, file.Scheme)
	return parent
}
