// Package manifest parses Cargo.toml files into resolvable manifests, so
// a local project's dependency tree can be computed before the project is
// ever published.
package manifest

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/git-pkgs/resolve/internal/core"
)

type cargoFile struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Dependencies      map[string]any      `toml:"dependencies"`
	BuildDependencies map[string]any      `toml:"build-dependencies"`
	Features          map[string][]string `toml:"features"`
}

// Load reads a Cargo.toml file and converts its dependency and feature
// declarations into a manifest. Dev dependencies are ignored; they never
// flow into a consumer's tree.
func Load(path string) (*core.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse converts raw Cargo.toml contents into a manifest.
func Parse(data []byte) (*core.Manifest, error) {
	var file cargoFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	var edges []core.DependencyEdge
	for _, table := range []map[string]any{file.Dependencies, file.BuildDependencies} {
		tableEdges, err := extractEdges(table)
		if err != nil {
			return nil, err
		}
		edges = append(edges, tableEdges...)
	}

	return &core.Manifest{
		Name:     file.Package.Name,
		Version:  file.Package.Version,
		Edges:    edges,
		Features: file.Features,
	}, nil
}

// extractEdges converts one dependency table. TOML tables are unordered,
// so entries are sorted by name to keep resolution output reproducible.
func extractEdges(table map[string]any) ([]core.DependencyEdge, error) {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	edges := make([]core.DependencyEdge, 0, len(names))
	for _, name := range names {
		edge := core.DependencyEdge{Name: name, DefaultFeatures: true}

		switch v := table[name].(type) {
		case string:
			edge.Req = v
		case map[string]any:
			if req, ok := v["version"].(string); ok {
				edge.Req = req
			}
			if opt, ok := v["optional"].(bool); ok {
				edge.Optional = opt
			}
			if def, ok := v["default-features"].(bool); ok {
				edge.DefaultFeatures = def
			}
			if pkg, ok := v["package"].(string); ok {
				// Renamed dependency: the registry knows it by the
				// package key, not the local alias.
				edge.Name = pkg
			}
			if list, ok := v["features"].([]any); ok {
				for _, f := range list {
					if s, ok := f.(string); ok {
						edge.Features = append(edge.Features, s)
					}
				}
			}
		default:
			return nil, fmt.Errorf("dependency %s: unsupported declaration %T", name, v)
		}

		edges = append(edges, edge)
	}
	return edges, nil
}
