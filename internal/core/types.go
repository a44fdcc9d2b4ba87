// Package core provides the shared types, error taxonomy, and provider
// system used by the resolver and the bundled registry providers.
package core

import (
	"fmt"
	"time"
)

// PackageVersion identifies one concrete release of a package. A value is
// created when the resolver commits to a candidate and never mutated.
type PackageVersion struct {
	Name    string
	Version string
}

func (p PackageVersion) String() string {
	return p.Name + "@" + p.Version
}

// Version represents a release of a package as reported by a provider.
type Version struct {
	Number      string
	PublishedAt time.Time
	Status      VersionStatus // "", "yanked"
}

// VersionStatus represents the status of a package version.
type VersionStatus string

const (
	StatusNone   VersionStatus = ""
	StatusYanked VersionStatus = "yanked"
)

// DependencyEdge is one declared dependency of a package version.
// Req is a version range expression; empty means any version. Features
// are forwarded to the target's own activation, with DefaultFeatures
// controlling whether the target's "default" feature is requested too.
// ActivatedBy names the feature that enabled an optional edge; it is
// empty on unconditional edges and filled in during activation.
type DependencyEdge struct {
	Name            string
	Req             string
	Optional        bool
	Features        []string
	DefaultFeatures bool
	ActivatedBy     string
}

// Manifest is a package version's declaration of dependency edges and
// feature definitions. A feature maps to a list of values: a plain name
// activates another feature of the same package, "dep:name" enables the
// optional edge for name, "name/feat" enables the edge and forwards feat
// to it, and "name?/feat" forwards feat only when the edge was enabled by
// something else.
type Manifest struct {
	Name     string
	Version  string
	Edges    []DependencyEdge
	Features map[string][]string
}

// DefaultFeature is the feature a package activates when nothing is
// requested explicitly. Failures on unconditional edges are attributed to
// it as a pseudo-feature.
const DefaultFeature = "default"

// FeatureError records why one feature's dependency subtree could not be
// resolved.
type FeatureError struct {
	Feature string
	Err     error
}

func (e FeatureError) Error() string {
	return fmt.Sprintf("feature %q: %v", e.Feature, e.Err)
}

func (e FeatureError) Unwrap() error {
	return e.Err
}

// Tree is the outcome of one resolution: every package that resolved, in
// the order first committed, and one entry per feature whose subtree
// failed, in the order first encountered. Partial success is an ordinary,
// inspectable outcome; callers always receive both lists together.
type Tree struct {
	Packages []PackageVersion
	Errors   []FeatureError
}
