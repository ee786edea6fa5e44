// Package typecheck assembles the metadata that drives type check block generation: the type-check
// view of directives, type constructor requests, template source mappings and the per-component
// TypeCheckBlockMetadata.
package typecheck

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/metadata"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/reflection"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck/api"
)

// BuildTypeCheckableDirectiveMeta extends the metadata of a directive with the type-check facts
// read from its class declaration.
func BuildTypeCheckableDirectiveMeta(meta *metadata.DirectiveMeta, node *reflection.ClassDeclaration) (*api.TypeCheckableDirectiveMeta, error) {
	if meta == nil {
		return nil, errors.New("directive metadata is required")
	}
	if node == nil {
		return nil, errors.Errorf("directive %s has no class declaration", meta.Ref().DebugName())
	}
	typeCheckMeta := metadata.ExtractDirectiveTypeCheckMeta(node, meta.InputMappings())
	return api.NewTypeCheckableDirectiveMeta(meta, typeCheckMeta), nil
}

// DirectiveRegistry resolves the type-check metadata of directives by class.
//
// The type-check metadata of a class is computed at most once, on first use, and shared by every
// caller afterwards. Concurrent callers asking for the same class wait for the single computation;
// none of them observes a partially built value.
type DirectiveRegistry struct {
	mu         sync.RWMutex
	directives map[*reflection.ClassDeclaration]*metadata.DirectiveMeta
	resolved   map[*reflection.ClassDeclaration]*api.TypeCheckableDirectiveMeta
	group      singleflight.Group
}

// NewDirectiveRegistry creates a registry holding metas.
func NewDirectiveRegistry(metas ...*metadata.DirectiveMeta) *DirectiveRegistry {
	r := &DirectiveRegistry{
		directives: make(map[*reflection.ClassDeclaration]*metadata.DirectiveMeta),
		resolved:   make(map[*reflection.ClassDeclaration]*api.TypeCheckableDirectiveMeta),
	}
	for _, meta := range metas {
		r.Register(meta)
	}
	return r
}

// Register records the metadata of a directive. Registering a class twice keeps the first metadata,
// since type-check metadata already handed out for it must stay valid.
func (r *DirectiveRegistry) Register(meta *metadata.DirectiveMeta) {
	node := meta.Ref().Node
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.directives[node]; !ok {
		r.directives[node] = meta
	}
}

// Len returns the number of registered directives.
func (r *DirectiveRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.directives)
}

// GetTypeCheckableDirective returns the type-check metadata of the directive declared by ref.
// ErrUnresolvedDirective is returned for classes that were never registered.
func (r *DirectiveRegistry) GetTypeCheckableDirective(ref reflection.Reference) (*api.TypeCheckableDirectiveMeta, error) {
	node := ref.Node
	r.mu.RLock()
	if resolved, ok := r.resolved[node]; ok {
		r.mu.RUnlock()
		return resolved, nil
	}
	meta, ok := r.directives[node]
	r.mu.RUnlock()
	if !ok || node == nil {
		return nil, errors.Wrapf(api.ErrUnresolvedDirective, "%s", ref.DebugName())
	}

	value, err, _ := r.group.Do(fmt.Sprintf("%p", node), func() (interface{}, error) {
		r.mu.RLock()
		resolved, ok := r.resolved[node]
		r.mu.RUnlock()
		if ok {
			return resolved, nil
		}
		resolved, err := BuildTypeCheckableDirectiveMeta(meta, node)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.resolved[node] = resolved
		r.mu.Unlock()
		return resolved, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*api.TypeCheckableDirectiveMeta), nil
}
