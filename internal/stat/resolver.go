package stat

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Resolver holds registered sources/transforms and resolves stats on demand.
//
// Thread-safe: all methods are protected by sync.Mutex. Resolve mutates the
// cache, so there is no read-only fast path.
type Resolver struct {
	mu         sync.Mutex
	sources    map[ID][]Source
	transforms map[ID][]Transform

	// dependents[dep]: стата, которые зависят от dep (для инвалидации).
	dependents map[ID]map[ID]struct{}
	cache      map[ID]Resolved
}

// NewResolver creates an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		sources:    make(map[ID][]Source),
		transforms: make(map[ID][]Transform),
		dependents: make(map[ID]map[ID]struct{}),
		cache:      make(map[ID]Resolved),
	}
}

// RegisterSource appends a source to the stat and invalidates its cached value.
func (r *Resolver) RegisterSource(id ID, src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sources[id] = append(r.sources[id], src)
	r.trackDependencies(id, src.DependsOn())
	r.invalidateLocked(id, make(map[ID]struct{}))
}

// RegisterTransform appends a transform to the stat and invalidates its cached value.
func (r *Resolver) RegisterTransform(id ID, t Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transforms[id] = append(r.transforms[id], t)
	r.trackDependencies(id, t.DependsOn())
	r.invalidateLocked(id, make(map[ID]struct{}))
}

// Has reports whether anything is registered under id.
func (r *Resolver) Has(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasLocked(id)
}

// IDs returns every registered stat ID, sorted.
func (r *Resolver) IDs() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[ID]struct{}, len(r.sources)+len(r.transforms))
	for id := range r.sources {
		seen[id] = struct{}{}
	}
	for id := range r.transforms {
		seen[id] = struct{}{}
	}
	ids := make([]ID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Resolve returns the value of a stat, resolving its dependencies first.
// Results are cached until Invalidate/InvalidateAll or a new registration
// touching the stat or one of its dependencies.
func (r *Resolver) Resolve(id ID, ctx *Context) (Resolved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(id, ctx, nil)
}

// Invalidate drops the cached value of id and of every stat depending on it.
func (r *Resolver) Invalidate(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidateLocked(id, make(map[ID]struct{}))
}

// InvalidateAll drops every cached value.
func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[ID]Resolved)
}

func (r *Resolver) hasLocked(id ID) bool {
	return len(r.sources[id]) > 0 || len(r.transforms[id]) > 0
}

func (r *Resolver) trackDependencies(id ID, deps []ID) {
	for _, dep := range deps {
		set, ok := r.dependents[dep]
		if !ok {
			set = make(map[ID]struct{})
			r.dependents[dep] = set
		}
		set[id] = struct{}{}
	}
}

func (r *Resolver) invalidateLocked(id ID, seen map[ID]struct{}) {
	if _, ok := seen[id]; ok {
		return
	}
	seen[id] = struct{}{}
	delete(r.cache, id)
	for dependent := range r.dependents[id] {
		r.invalidateLocked(dependent, seen)
	}
}

// resolveLocked walks the dependency graph depth-first.
// path holds the stats currently being resolved, for cycle detection.
func (r *Resolver) resolveLocked(id ID, ctx *Context, path []ID) (Resolved, error) {
	if res, ok := r.cache[id]; ok {
		return res, nil
	}
	for i, p := range path {
		if p == id {
			return Resolved{}, fmt.Errorf("%w: %s", ErrCycle, formatCycle(path[i:], id))
		}
	}
	if !r.hasLocked(id) {
		return Resolved{}, fmt.Errorf("%w: %s", ErrUnknownStat, id)
	}

	sources := r.sources[id]
	transforms := r.transforms[id]

	path = append(path, id)
	deps := make(map[ID]float64)
	resolveDeps := func(ids []ID) error {
		for _, dep := range ids {
			if _, ok := deps[dep]; ok {
				continue
			}
			res, err := r.resolveLocked(dep, ctx, path)
			if err != nil {
				return err
			}
			deps[dep] = res.Value
		}
		return nil
	}
	for _, src := range sources {
		if err := resolveDeps(src.DependsOn()); err != nil {
			return Resolved{}, err
		}
	}
	for _, t := range transforms {
		if err := resolveDeps(t.DependsOn()); err != nil {
			return Resolved{}, err
		}
	}

	res := Resolved{
		ID:         id,
		Sources:    make([]Contribution, 0, len(sources)),
		Transforms: make([]Contribution, 0, len(transforms)),
	}

	var value float64
	for _, src := range sources {
		v, err := src.Value(deps, ctx)
		if err != nil {
			return Resolved{}, fmt.Errorf("stat %s: source %s: %w", id, src.Describe(), err)
		}
		value += v
		res.Sources = append(res.Sources, Contribution{Description: src.Describe(), Value: v})
	}
	for _, t := range transforms {
		v, err := t.Apply(value, deps, ctx)
		if err != nil {
			return Resolved{}, fmt.Errorf("stat %s: transform %s: %w", id, t.Describe(), err)
		}
		value = v
		res.Transforms = append(res.Transforms, Contribution{Description: t.Describe(), Value: v})
	}

	res.Value = value
	r.cache[id] = res
	return res, nil
}

func formatCycle(path []ID, closing ID) string {
	parts := make([]string, 0, len(path)+1)
	for _, p := range path {
		parts = append(parts, string(p))
	}
	parts = append(parts, string(closing))
	return strings.Join(parts, " -> ")
}
