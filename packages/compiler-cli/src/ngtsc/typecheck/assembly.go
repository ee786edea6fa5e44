package typecheck

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/logging"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/metadata"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/reflection"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck/api"
	"ngtcb-go/packages/compiler/src/core"
	"ngtcb-go/packages/compiler/src/render3/view"
)

// ComponentUnit is one component whose template is to be type checked.
type ComponentUnit struct {
	Ref      reflection.Reference
	Template *TemplateDeclaration
	// BoundTarget is the template bound against the directives in scope of the component.
	BoundTarget view.BoundTarget[*metadata.DirectiveMeta]
	// Pipes in scope of the component, in resolution order.
	Pipes               []*metadata.PipeMeta
	Schemas             []core.SchemaMetadata
	IsStandalone        bool
	PreserveWhitespaces bool
}

// AssembledTemplate is the outcome of assembling one component.
type AssembledTemplate struct {
	Meta    *api.TypeCheckBlockMetadata
	Mapping api.TemplateSourceMapping
}

// Assembler builds the TypeCheckBlockMetadata of components.
type Assembler struct {
	directives *DirectiveRegistry
	templates  *TemplateResolver
	sources    *SourceManager
	jobs       int
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithJobs bounds the number of components assembled concurrently by AssembleAll.
func WithJobs(jobs int) AssemblerOption {
	return func(a *Assembler) {
		if jobs > 0 {
			a.jobs = jobs
		}
	}
}

// WithSourceManager records template mappings in sources instead of a private manager.
func WithSourceManager(sources *SourceManager) AssemblerOption {
	return func(a *Assembler) {
		a.sources = sources
	}
}

// NewAssembler creates an Assembler resolving directives through directives and templates through
// templates.
func NewAssembler(directives *DirectiveRegistry, templates *TemplateResolver, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		directives: directives,
		templates:  templates,
		sources:    NewSourceManager(),
		jobs:       runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sources returns the manager holding the mappings of assembled templates.
func (a *Assembler) Sources() *SourceManager {
	return a.sources
}

// Assemble builds the TypeCheckBlockMetadata of unit.
//
// Every directive used by the template must resolve to type-check metadata; otherwise the
// component fails with api.ErrUnresolvedDirective. A template file that cannot be loaded fails the
// component with *api.TemplateLoadError. Nothing is recorded for a component that fails.
func (a *Assembler) Assemble(ctx context.Context, unit *ComponentUnit) (*AssembledTemplate, error) {
	template, err := a.prepare(ctx, unit)
	if err != nil {
		return nil, err
	}
	a.capture(unit, template)
	return template, nil
}

// prepare builds the metadata of unit without allocating its TemplateId.
func (a *Assembler) prepare(ctx context.Context, unit *ComponentUnit) (*AssembledTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := unit.Ref.DebugName()
	if unit.Ref.Node == nil {
		return nil, errors.New("component has no class declaration")
	}
	if unit.Template == nil || unit.BoundTarget == nil {
		return nil, errors.Errorf("component %s has no bound template", name)
	}

	mapping, err := a.templates.Resolve(ctx, unit.Template)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve template of %s", name)
	}

	resolved := make(map[*reflection.ClassDeclaration]*api.TypeCheckableDirectiveMeta)
	resolve := func(dirs []*metadata.DirectiveMeta) ([]*api.TypeCheckableDirectiveMeta, error) {
		result := make([]*api.TypeCheckableDirectiveMeta, 0, len(dirs))
		for _, dir := range dirs {
			node := dir.Ref().Node
			if typeCheckable, ok := resolved[node]; ok {
				result = append(result, typeCheckable)
				continue
			}
			typeCheckable, err := a.directives.GetTypeCheckableDirective(dir.Ref())
			if err != nil {
				return nil, errors.Wrapf(err, "template of %s", name)
			}
			resolved[node] = typeCheckable
			result = append(result, typeCheckable)
		}
		return result, nil
	}

	used, err := resolve(unit.BoundTarget.GetUsedDirectives())
	if err != nil {
		return nil, err
	}
	eager, err := resolve(unit.BoundTarget.GetEagerlyUsedDirectives())
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boundTarget := view.NewStaticBoundTarget(unit.BoundTarget.Target(), eager, deferredOnly(used, eager), unit.BoundTarget.GetUsedPipes())
	meta := &api.TypeCheckBlockMetadata{
		BoundTarget:         boundTarget,
		Pipes:               foldPipes(unit.Pipes),
		Schemas:             append([]core.SchemaMetadata(nil), unit.Schemas...),
		IsStandalone:        unit.IsStandalone,
		PreserveWhitespaces: unit.PreserveWhitespaces,
	}
	return &AssembledTemplate{Meta: meta, Mapping: mapping}, nil
}

func (a *Assembler) capture(unit *ComponentUnit, template *AssembledTemplate) {
	template.Meta.ID = a.sources.CaptureSource(unit.Ref.Node.File, template.Mapping)
}

// Result is the outcome of assembling one unit of a batch. Exactly one of Template and Err is set.
type Result struct {
	Unit     *ComponentUnit
	Template *AssembledTemplate
	Err      error
}

// AssembleAll assembles units concurrently. A failing unit does not affect the others; its error is
// reported in its Result. Units not finished when ctx is cancelled report ctx.Err().
//
// TemplateIds are allocated once every unit is done, in the order of units, so a batch always
// yields the same ids.
func (a *Assembler) AssembleAll(ctx context.Context, units []*ComponentUnit) []Result {
	logger := logging.FromContext(ctx).With("run", uuid.NewString())
	started := time.Now()
	results := make([]Result, len(units))

	g := &errgroup.Group{}
	g.SetLimit(max(1, min(a.jobs, len(units))))
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			template, err := a.prepare(ctx, unit)
			results[i] = Result{Unit: unit, Template: template, Err: err}
			if err != nil {
				logger.Warn("type check block assembly failed", "component", unit.Ref.DebugName(), "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		a.capture(result.Unit, result.Template)
	}
	logger.Info("type check block assembly finished",
		"components", len(units), "failed", failed, "elapsed", time.Since(started))
	return results
}

// foldPipes maps pipe names to their classes. A later registration of a name shadows an earlier
// one.
func foldPipes(pipes []*metadata.PipeMeta) map[string]reflection.Reference {
	result := make(map[string]reflection.Reference, len(pipes))
	for _, pipe := range pipes {
		result[pipe.Name] = pipe.Ref
	}
	return result
}

func deferredOnly(used, eager []*api.TypeCheckableDirectiveMeta) []*api.TypeCheckableDirectiveMeta {
	isEager := make(map[*api.TypeCheckableDirectiveMeta]bool, len(eager))
	for _, dir := range eager {
		isEager[dir] = true
	}
	var result []*api.TypeCheckableDirectiveMeta
	for _, dir := range used {
		if !isEager[dir] {
			result = append(result, dir)
		}
	}
	return result
}
