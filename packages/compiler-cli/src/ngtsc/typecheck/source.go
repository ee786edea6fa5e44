package typecheck

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/viant/afs"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/reflection"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck/api"
	"ngtcb-go/packages/compiler/src/util"
)

// TemplateDeclaration describes where a component declares its template.
type TemplateDeclaration struct {
	ComponentClass *reflection.ClassDeclaration
	// Expression is the `template` expression of an inline template, or the `templateUrl`
	// expression of an external one.
	Expression *reflection.Expression
	IsInline   bool
	// Template is the evaluated value of an inline template expression.
	Template string
	// TemplateURL is the resolved location of an external template file.
	TemplateURL string
}

// TemplateResolver turns template declarations into source mappings, loading external template
// files on the way.
type TemplateResolver struct {
	fs afs.Service
}

// NewTemplateResolver creates a resolver loading template files through fs. A nil fs uses afs.New().
func NewTemplateResolver(fs afs.Service) *TemplateResolver {
	if fs == nil {
		fs = afs.New()
	}
	return &TemplateResolver{fs: fs}
}

// Resolve returns the source mapping of the declared template.
//
// Inline literal templates map directly, other inline expressions indirectly. External templates
// are loaded; when that fails a *api.TemplateLoadError is returned and no mapping is produced.
func (r *TemplateResolver) Resolve(ctx context.Context, decl *TemplateDeclaration) (api.TemplateSourceMapping, error) {
	if decl.Expression == nil {
		return nil, errors.Errorf("template of %s has no declaring expression", className(decl.ComponentClass))
	}
	if decl.IsInline {
		if decl.Expression.IsLiteral() {
			return &api.DirectTemplateSourceMapping{Node: decl.Expression}, nil
		}
		return &api.IndirectTemplateSourceMapping{
			ComponentClass: decl.ComponentClass,
			Node:           decl.Expression,
			Template:       decl.Template,
		}, nil
	}

	data, err := r.fs.DownloadWithURL(ctx, decl.TemplateURL)
	if err != nil {
		return nil, &api.TemplateLoadError{
			TemplateURL: decl.TemplateURL,
			Span:        decl.Expression.Span(),
			Err:         err,
		}
	}
	return &api.ExternalTemplateSourceMapping{
		ComponentClass: decl.ComponentClass,
		Node:           decl.Expression,
		Template:       string(data),
		TemplateURL:    decl.TemplateURL,
	}, nil
}

// SourceManager allocates TemplateIds and keeps the source mapping of every template, so that
// diagnostics reported against a TemplateId can be positioned in the original template.
type SourceManager struct {
	mu       sync.RWMutex
	nextID   map[string]int
	mappings map[api.TemplateId]api.TemplateSourceMapping
}

// NewSourceManager creates an empty SourceManager.
func NewSourceManager() *SourceManager {
	return &SourceManager{
		nextID:   make(map[string]int),
		mappings: make(map[api.TemplateId]api.TemplateSourceMapping),
	}
}

// CaptureSource allocates a TemplateId for a template of the given host file and records its
// mapping.
func (m *SourceManager) CaptureSource(file string, mapping api.TemplateSourceMapping) api.TemplateId {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID[file]++
	id := api.TemplateId(fmt.Sprintf("%s#tcb%d", file, m.nextID[file]))
	m.mappings[id] = mapping
	return id
}

// GetSourceMapping returns the mapping recorded for id.
func (m *SourceManager) GetSourceMapping(id api.TemplateId) (api.TemplateSourceMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mapping, ok := m.mappings[id]
	if !ok {
		return nil, errors.Wrapf(api.ErrUnknownTemplate, "%s", id)
	}
	return mapping, nil
}

// ToParseSourceSpan positions a diagnostic produced between the template offsets start and end.
func (m *SourceManager) ToParseSourceSpan(id api.TemplateId, start, end int) (*util.ParseSourceSpan, error) {
	mapping, err := m.GetSourceMapping(id)
	if err != nil {
		return nil, err
	}
	return api.ToDiagnosticSpan(mapping, start, end), nil
}

func className(node *reflection.ClassDeclaration) string {
	if node == nil {
		return "<unknown class>"
	}
	return node.Name
}
