package resolver

import (
	"sort"
	"strings"

	"github.com/git-pkgs/resolve/internal/core"
)

// activation is the result of expanding a requested feature set on one
// manifest: the closure of activated features, the edges it enables (in
// manifest order), and one error per requested feature that failed.
type activation struct {
	features map[string]bool
	edges    []core.DependencyEdge
	errors   []core.FeatureError
}

// activate computes the fixed point of feature expansion for m with the
// given requested features. Unconditional required edges are always
// enabled. When origin is non-empty every error is attributed to it
// instead of the feature that directly failed; the walker uses this when
// a single feature opened the whole subtree.
func activate(m *core.Manifest, requested []string, origin string) activation {
	act := activation{features: make(map[string]bool)}

	optional := make(map[string]bool)
	required := make(map[string]bool)
	for _, e := range m.Edges {
		if e.Optional {
			optional[e.Name] = true
		} else {
			required[e.Name] = true
		}
	}

	// An optional dependency named by a "dep:" value anywhere loses its
	// implicit feature of the same name.
	explicit := make(map[string]bool)
	for _, values := range m.Features {
		for _, v := range values {
			if rest, ok := strings.CutPrefix(v, "dep:"); ok {
				explicit[rest] = true
			}
		}
	}

	enabled := make(map[string]bool)
	enabledBy := make(map[string]string)
	forwards := make(map[string][]string)

	type weakForward struct {
		dep  string
		feat string
	}
	var weaks []weakForward

	fail := func(feature string, err error) {
		if origin != "" {
			feature = origin
		}
		act.errors = append(act.errors, core.FeatureError{Feature: feature, Err: err})
	}

	enable := func(dep, by string) {
		if optional[dep] && !enabled[dep] {
			enabled[dep] = true
			enabledBy[dep] = by
		}
	}

	seen := make(map[string]bool)
	var expand func(name, top string)
	expand = func(name, top string) {
		if seen[name] {
			return
		}
		seen[name] = true

		values, ok := m.Features[name]
		if !ok {
			if optional[name] && !explicit[name] {
				enable(name, top)
				act.features[name] = true
				return
			}
			fail(top, &core.UnknownFeatureError{Package: m.Name, Feature: name})
			return
		}

		act.features[name] = true
		for _, v := range values {
			switch {
			case strings.HasPrefix(v, "dep:"):
				enable(strings.TrimPrefix(v, "dep:"), top)
			case strings.Contains(v, "?/"):
				i := strings.Index(v, "?/")
				weaks = append(weaks, weakForward{dep: v[:i], feat: v[i+2:]})
			case strings.Contains(v, "/"):
				i := strings.Index(v, "/")
				enable(v[:i], top)
				forwards[v[:i]] = append(forwards[v[:i]], v[i+1:])
			default:
				expand(v, top)
			}
		}
	}

	for _, f := range requested {
		expand(f, f)
	}

	// Weak forwards apply only to edges something else enabled. Expansion
	// is monotonic and done by now, so one sweep suffices.
	for _, w := range weaks {
		if enabled[w.dep] || required[w.dep] {
			forwards[w.dep] = append(forwards[w.dep], w.feat)
		}
	}

	for _, e := range m.Edges {
		if e.Optional {
			if !enabled[e.Name] {
				continue
			}
			e.ActivatedBy = enabledBy[e.Name]
		}
		if fw := forwards[e.Name]; len(fw) > 0 {
			e.Features = append(append([]string(nil), e.Features...), fw...)
		}
		act.edges = append(act.edges, e)
	}

	return act
}

// depFeatures lists the manifest features that can activate an optional
// dependency, in sorted order for reproducible output. Mirrors how
// registries distinguish dependency-carrying feature values ("dep:name",
// "name/feat", "name?/feat") from plain feature references.
func depFeatures(m *core.Manifest) []string {
	var names []string
	for name, values := range m.Features {
		for _, v := range values {
			if strings.HasPrefix(v, "dep:") || strings.Contains(v, "/") {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}
