package resolver

import (
	"context"
	"errors"
	"sync"

	"github.com/git-pkgs/resolve/internal/core"
)

// memoProvider caches provider responses for the lifetime of a Resolver.
// Registry metadata is stable enough to memoize; resolution decisions
// never are, so only raw responses are stored. Not-found answers are
// cached too, other failures are retried on the next ask.
type memoProvider struct {
	p core.Provider

	mu        sync.Mutex
	versions  map[string]*versionsResult
	manifests map[core.PackageVersion]*manifestResult
}

type versionsResult struct {
	versions []core.Version
	err      error
}

type manifestResult struct {
	manifest *core.Manifest
	err      error
}

func newMemoProvider(p core.Provider) *memoProvider {
	return &memoProvider{
		p:         p,
		versions:  make(map[string]*versionsResult),
		manifests: make(map[core.PackageVersion]*manifestResult),
	}
}

func (m *memoProvider) Ecosystem() string {
	return m.p.Ecosystem()
}

func (m *memoProvider) ListVersions(ctx context.Context, name string) ([]core.Version, error) {
	m.mu.Lock()
	if r, ok := m.versions[name]; ok {
		m.mu.Unlock()
		return r.versions, r.err
	}
	m.mu.Unlock()

	// Concurrent warmers may race to fetch the same name; both store the
	// same answer, so the duplicate work is harmless.
	versions, err := m.p.ListVersions(ctx, name)
	if err == nil || errors.Is(err, core.ErrNotFound) {
		m.mu.Lock()
		m.versions[name] = &versionsResult{versions: versions, err: err}
		m.mu.Unlock()
	}
	return versions, err
}

func (m *memoProvider) GetManifest(ctx context.Context, name, version string) (*core.Manifest, error) {
	key := core.PackageVersion{Name: name, Version: version}

	m.mu.Lock()
	if r, ok := m.manifests[key]; ok {
		m.mu.Unlock()
		return r.manifest, r.err
	}
	m.mu.Unlock()

	manifest, err := m.p.GetManifest(ctx, name, version)
	if err == nil || errors.Is(err, core.ErrNotFound) {
		m.mu.Lock()
		m.manifests[key] = &manifestResult{manifest: manifest, err: err}
		m.mu.Unlock()
	}
	return manifest, err
}
