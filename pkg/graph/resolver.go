// Package graph computes transitive schema dependencies over a parsed spec,
// detecting cycles without erroring on them.
package graph

import (
	"fmt"

	"github.com/goliatone/go-clientgen/pkg/openapi"
)

// Resolver memoizes per-schema dependency lists for one generation run.
// It is not safe for concurrent use; the generation pipeline is
// single-threaded by design and constructs a fresh Resolver per spec.
type Resolver struct {
	spec     *openapi.Spec
	memo     map[string][]string
	circular map[string]struct{}
}

// New constructs a Resolver bound to one spec.
func New(spec *openapi.Spec) *Resolver {
	return &Resolver{
		spec:     spec,
		memo:     make(map[string][]string),
		circular: make(map[string]struct{}),
	}
}

// DependenciesOf returns the ordered transitive dependencies of a schema.
// A name already on the current traversal path is recorded as circular and
// not descended into again; the schema stays usable. Results are memoized,
// and a failed resolution never corrupts memo entries of unrelated names.
func (r *Resolver) DependenciesOf(name string) ([]string, error) {
	return r.resolve(name, make(map[string]bool))
}

// IsCircular reports whether a schema was seen participating in a cycle
// during any traversal so far.
func (r *Resolver) IsCircular(name string) bool {
	_, ok := r.circular[name]
	return ok
}

func (r *Resolver) resolve(name string, visiting map[string]bool) ([]string, error) {
	if deps, ok := r.memo[name]; ok {
		return deps, nil
	}
	node, ok := r.spec.Schema(name)
	if !ok {
		return nil, openapi.NewSchemaError(name, openapi.ErrNotFound)
	}

	visiting[name] = true
	defer delete(visiting, name)

	seen := make(map[string]bool)
	deps := make([]string, 0)
	for _, target := range node.Refs() {
		if visiting[target] {
			// Cycle: record and stop descending along this path.
			r.circular[target] = struct{}{}
			if !seen[target] {
				seen[target] = true
				deps = append(deps, target)
			}
			continue
		}
		if _, exists := r.spec.Schema(target); !exists {
			return nil, openapi.NewSchemaError(target, openapi.ErrNotFound)
		}
		if !seen[target] {
			seen[target] = true
			deps = append(deps, target)
		}
		transitive, err := r.resolve(target, visiting)
		if err != nil {
			return nil, fmt.Errorf("graph: resolve %q: %w", name, err)
		}
		for _, dep := range transitive {
			if dep == name && !r.selfReferential(name) {
				continue
			}
			if !seen[dep] {
				seen[dep] = true
				deps = append(deps, dep)
			}
		}
	}

	r.memo[name] = deps
	return deps, nil
}

// selfReferential reports whether a schema references itself directly.
func (r *Resolver) selfReferential(name string) bool {
	node, ok := r.spec.Schema(name)
	if !ok {
		return false
	}
	for _, target := range node.Refs() {
		if target == name {
			return true
		}
	}
	return false
}

// CollectAll closes over the full transitive dependency set starting from
// operation-referenced schema names, using a work-list so already-processed
// names are never re-descended. This is the traversal module partitioning
// is built on.
func (r *Resolver) CollectAll(roots []string) ([]string, error) {
	var out []string
	processed := make(map[string]bool)

	work := make([]string, 0, len(roots))
	for _, root := range roots {
		if processed[root] {
			continue
		}
		processed[root] = true
		work = append(work, root)
	}

	for len(work) > 0 {
		name := work[0]
		work = work[1:]

		node, ok := r.spec.Schema(name)
		if !ok {
			return nil, openapi.NewSchemaError(name, openapi.ErrNotFound)
		}
		out = append(out, name)

		for _, target := range node.Refs() {
			if processed[target] {
				continue
			}
			processed[target] = true
			work = append(work, target)
		}
	}
	return out, nil
}
