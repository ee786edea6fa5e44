package view

// StaticBoundTarget is a BoundTarget whose binding results were computed ahead of time, e.g.
// decoded from a build manifest or produced by a test.
type StaticBoundTarget[D DirectiveMeta] struct {
	target   *Target
	eager    []D
	deferred []D
	pipes    []string
}

// NewStaticBoundTarget creates a bound target for the given target. Eagerly and lazily used
// directives are kept apart so that GetEagerlyUsedDirectives can exclude the latter.
func NewStaticBoundTarget[D DirectiveMeta](target *Target, eager, deferred []D, pipes []string) *StaticBoundTarget[D] {
	return &StaticBoundTarget[D]{
		target:   target,
		eager:    append([]D(nil), eager...),
		deferred: append([]D(nil), deferred...),
		pipes:    append([]string(nil), pipes...),
	}
}

// Target returns the original `Target` that was bound.
func (bt *StaticBoundTarget[D]) Target() *Target {
	return bt.target
}

// GetUsedDirectives returns every directive used by the target, eager ones first.
func (bt *StaticBoundTarget[D]) GetUsedDirectives() []D {
	result := make([]D, 0, len(bt.eager)+len(bt.deferred))
	result = append(result, bt.eager...)
	return append(result, bt.deferred...)
}

// GetEagerlyUsedDirectives returns the directives used outside of `@defer` blocks.
func (bt *StaticBoundTarget[D]) GetEagerlyUsedDirectives() []D {
	return append([]D(nil), bt.eager...)
}

// GetUsedPipes returns the names of the pipes used by the target.
func (bt *StaticBoundTarget[D]) GetUsedPipes() []string {
	return append([]string(nil), bt.pipes...)
}
