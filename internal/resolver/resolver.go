// Package resolver implements transitive dependency resolution over a
// metadata provider: version selection under accumulated constraints,
// feature activation, and a deterministic depth-first walk that reports
// per-feature failures without abandoning the rest of the tree.
package resolver

import (
	"context"

	"github.com/git-pkgs/resolve/internal/core"
)

const defaultPrefetch = 15

// Resolver computes transitive dependency trees from a metadata provider.
// Provider responses are memoized for the lifetime of the Resolver;
// resolution decisions are never cached across calls.
type Resolver struct {
	provider core.Provider
	prefetch int
	breaker  bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPrefetch sets how many sibling metadata fetches may run
// concurrently while warming the memo ahead of a traversal frontier.
// Values below 2 disable prefetching.
func WithPrefetch(n int) Option {
	return func(r *Resolver) {
		r.prefetch = n
	}
}

// WithCircuitBreaker wraps the provider in a circuit breaker so a
// registry outage fails fast instead of hammering a dead endpoint.
func WithCircuitBreaker() Option {
	return func(r *Resolver) {
		r.breaker = true
	}
}

// New creates a Resolver over p.
func New(p core.Provider, opts ...Option) *Resolver {
	r := &Resolver{provider: p, prefetch: defaultPrefetch}
	for _, opt := range opts {
		opt(r)
	}
	if r.breaker {
		r.provider = newBreakerProvider(r.provider)
	}
	// Memo outermost: cache hits bypass the breaker.
	r.provider = newMemoProvider(r.provider)
	return r
}

// Dependencies resolves the transitive dependency tree of name under an
// optional version constraint (empty means any version, picking the
// latest). Only the root's default feature, when it has one, is
// activated. The returned error is non-nil only when the root itself
// cannot be resolved; every other failure is an entry in Tree.Errors.
func (r *Resolver) Dependencies(ctx context.Context, name, constraint string) (*core.Tree, error) {
	return r.resolve(ctx, name, constraint, nil, false)
}

// DependenciesWithFeatures resolves the tree with the given features
// requested on the root, in addition to its default feature. A feature
// whose subtree cannot be resolved contributes one entry to Tree.Errors
// without aborting its siblings.
func (r *Resolver) DependenciesWithFeatures(ctx context.Context, name, constraint string, features []string) (*core.Tree, error) {
	return r.resolve(ctx, name, constraint, features, false)
}

// DependenciesAllFeatures resolves the tree with every feature of the
// root that can activate an optional dependency expanded incrementally,
// one feature at a time, so a feature with an unresolvable subtree
// surfaces in Tree.Errors instead of poisoning the others.
func (r *Resolver) DependenciesAllFeatures(ctx context.Context, name, constraint string) (*core.Tree, error) {
	return r.resolve(ctx, name, constraint, nil, true)
}

func (r *Resolver) resolve(ctx context.Context, name, constraint string, features []string, expandAll bool) (*core.Tree, error) {
	versions, err := r.provider.ListVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	selected, ok, err := selectVersion(versions, constraint)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &core.NoSatisfyingVersionError{Name: name, Constraint: constraint}
	}

	manifest, err := r.provider.GetManifest(ctx, name, selected)
	if err != nil {
		return nil, err
	}

	st := newState()
	root := core.PackageVersion{Name: name, Version: selected}
	st.commit(root)

	return r.run(ctx, st, root, manifest, features, expandAll)
}

// ResolveManifest resolves the dependency tree declared by a manifest
// that is not itself published in the registry, such as a local project
// file. The manifest's own package is not part of the result. A nil
// features slice activates the manifest's default feature and expands
// every dependency-activating feature incrementally.
func (r *Resolver) ResolveManifest(ctx context.Context, m *core.Manifest, features []string) (*core.Tree, error) {
	st := newState()
	root := core.PackageVersion{Name: m.Name, Version: m.Version}
	if root.Name == "" {
		root.Name = "root"
	}
	// Visited, but deliberately not committed: the root stays out of the
	// output while still participating in dedup and cycle checks.
	st.visited[root.Name] = root.Version

	return r.run(ctx, st, root, m, features, features == nil)
}

// run walks the tree below an already selected root. The root must
// already be recorded on st.
func (r *Resolver) run(ctx context.Context, st *state, root core.PackageVersion, manifest *core.Manifest, features []string, expandAll bool) (*core.Tree, error) {
	st.push(root)
	defer st.pop()

	requested := features
	if _, ok := manifest.Features[core.DefaultFeature]; ok {
		requested = append([]string{core.DefaultFeature}, requested...)
	}

	act := activate(manifest, requested, "")
	for _, fe := range act.errors {
		st.fail(fe.Feature, fe.Err)
	}
	if err := r.walkEdges(ctx, st, act.edges, ""); err != nil {
		return nil, err
	}

	if expandAll {
		for _, f := range depFeatures(manifest) {
			if act.features[f] || st.failed[f] {
				continue
			}
			fact := activate(manifest, []string{f}, f)
			for _, fe := range fact.errors {
				st.fail(fe.Feature, fe.Err)
			}
			var optional []core.DependencyEdge
			for _, e := range fact.edges {
				if e.Optional {
					optional = append(optional, e)
				}
			}
			if err := r.walkEdges(ctx, st, optional, f); err != nil {
				return nil, err
			}
		}
	}

	return &core.Tree{Packages: st.packages, Errors: st.errors}, nil
}

// MergeDependencies resolves name and merges the outcome into tree,
// deduplicating packages by (name, version) identity. Useful when
// accumulating the dependencies of several roots into one flat list.
func (r *Resolver) MergeDependencies(ctx context.Context, name, constraint string, tree *core.Tree) error {
	t, err := r.DependenciesAllFeatures(ctx, name, constraint)
	if err != nil {
		return err
	}

	seen := make(map[core.PackageVersion]bool, len(tree.Packages))
	for _, p := range tree.Packages {
		seen[p] = true
	}
	for _, p := range t.Packages {
		if seen[p] {
			continue
		}
		seen[p] = true
		tree.Packages = append(tree.Packages, p)
	}
	tree.Errors = append(tree.Errors, t.Errors...)
	return nil
}
