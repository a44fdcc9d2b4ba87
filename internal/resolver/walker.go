package resolver

import (
	"context"

	"github.com/git-pkgs/resolve/internal/core"
	"github.com/git-pkgs/resolve/internal/version"
)

// state is the mutable bookkeeping for one resolution call. It is owned
// by the single walking goroutine and discarded when the call returns;
// nothing about a decision outlives the call.
type state struct {
	visited  map[string]string // name -> committed version
	onPath   map[core.PackageVersion]bool
	path     []core.PackageVersion
	packages []core.PackageVersion
	failed   map[string]bool // features that already contributed an error
	errors   []core.FeatureError
}

func newState() *state {
	return &state{
		visited: make(map[string]string),
		onPath:  make(map[core.PackageVersion]bool),
		failed:  make(map[string]bool),
	}
}

// commit records a selected package version. Output order is commit
// order: pre-order, first-encountered-wins.
func (s *state) commit(pv core.PackageVersion) {
	s.visited[pv.Name] = pv.Version
	s.packages = append(s.packages, pv)
}

func (s *state) push(pv core.PackageVersion) {
	s.path = append(s.path, pv)
	s.onPath[pv] = true
}

func (s *state) pop() {
	pv := s.path[len(s.path)-1]
	s.path = s.path[:len(s.path)-1]
	delete(s.onPath, pv)
}

// fail records an error for a feature. A feature contributes at most one
// entry; later failures in the same feature's subtree are dropped.
func (s *state) fail(feature string, err error) {
	if feature == "" {
		feature = core.DefaultFeature
	}
	if s.failed[feature] {
		return
	}
	s.failed[feature] = true
	s.errors = append(s.errors, core.FeatureError{Feature: feature, Err: err})
}

func (s *state) cyclePath(pv core.PackageVersion) []core.PackageVersion {
	return append(append([]core.PackageVersion(nil), s.path...), pv)
}

// selectVersion picks the highest non-yanked version satisfying
// constraint.
func selectVersion(versions []core.Version, constraint string) (string, bool, error) {
	numbers := make([]string, 0, len(versions))
	for _, v := range versions {
		if v.Status != core.StatusNone {
			continue
		}
		numbers = append(numbers, v.Number)
	}
	return version.MaxSatisfying(numbers, constraint)
}

// walkEdges resolves a frontier of edges in declaration order. When
// prefetching is enabled the version lists behind the frontier are warmed
// concurrently first; the walk itself stays sequential so the committed
// order, and with it conflict attribution, is deterministic.
func (r *Resolver) walkEdges(ctx context.Context, st *state, edges []core.DependencyEdge, origin string) error {
	if r.prefetch > 1 && len(edges) > 1 {
		r.warmFrontier(ctx, st, edges)
	}
	for _, e := range edges {
		if err := r.walkEdge(ctx, st, e, origin); err != nil {
			return err
		}
	}
	return nil
}

// walkEdge resolves one dependency edge and recurses into its subtree.
// The returned error is non-nil only for failures on the unconditional
// required spine from the root; everything else is recorded on st and
// contained.
func (r *Resolver) walkEdge(ctx context.Context, st *state, edge core.DependencyEdge, origin string) error {
	feature := origin
	if feature == "" {
		feature = edge.ActivatedBy
	}
	fatal := origin == "" && !edge.Optional

	fail := func(err error) error {
		if fatal {
			return err
		}
		st.fail(feature, err)
		return nil
	}

	if committed, ok := st.visited[edge.Name]; ok {
		satisfied, err := version.Satisfies(committed, edge.Req)
		if err != nil {
			return fail(err)
		}
		if !satisfied {
			return fail(&core.VersionConflictError{Name: edge.Name, Have: committed, Constraint: edge.Req})
		}
		pv := core.PackageVersion{Name: edge.Name, Version: committed}
		if st.onPath[pv] {
			// A back edge into the active path would recurse forever.
			// The package is already part of the tree, so report the
			// cycle and move on rather than discard a valid result.
			st.fail(feature, &core.DependencyCycleError{Path: st.cyclePath(pv)})
		}
		return nil
	}

	versions, err := r.provider.ListVersions(ctx, edge.Name)
	if err != nil {
		return fail(err)
	}
	selected, ok, err := selectVersion(versions, edge.Req)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(&core.NoSatisfyingVersionError{Name: edge.Name, Constraint: edge.Req})
	}

	manifest, err := r.provider.GetManifest(ctx, edge.Name, selected)
	if err != nil {
		return fail(err)
	}

	pv := core.PackageVersion{Name: edge.Name, Version: selected}
	st.commit(pv)
	st.push(pv)
	defer st.pop()

	requested := edge.Features
	if edge.DefaultFeatures {
		if _, ok := manifest.Features[core.DefaultFeature]; ok {
			requested = append([]string{core.DefaultFeature}, requested...)
		}
	}

	act := activate(manifest, requested, origin)
	for _, fe := range act.errors {
		st.fail(fe.Feature, fe.Err)
	}

	nextOrigin := origin
	if nextOrigin == "" {
		nextOrigin = edge.ActivatedBy
	}
	return r.walkEdges(ctx, st, act.edges, nextOrigin)
}

// warmFrontier prefetches version lists for the unvisited names in a
// frontier. Results land in the memo; the walk re-reads them in edge
// order, so concurrency never changes which constraint lands first.
func (r *Resolver) warmFrontier(ctx context.Context, st *state, edges []core.DependencyEdge) {
	seen := make(map[string]bool)
	var names []string
	for _, e := range edges {
		if _, ok := st.visited[e.Name]; ok {
			continue
		}
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}
	if len(names) < 2 {
		return
	}
	core.BulkListVersions(ctx, r.provider, names, r.prefetch)
}
