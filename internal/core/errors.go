package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/git-pkgs/resolve/client"
)

// ErrNotFound is returned when a package or version is unknown to the
// registry.
var ErrNotFound = client.ErrNotFound

// Transport-level errors, re-exported so providers and callers need not
// import the client package.
type (
	HTTPError      = client.HTTPError
	RateLimitError = client.RateLimitError
)

// Sentinels for the resolution error taxonomy. The typed errors below
// unwrap to these so callers can classify outcomes with errors.Is.
var (
	ErrNoSatisfyingVersion = errors.New("no satisfying version")
	ErrUnknownFeature      = errors.New("unknown feature")
	ErrDependencyCycle     = errors.New("dependency cycle")
	ErrVersionConflict     = errors.New("version conflict")
	ErrProviderUnavailable = errors.New("registry unavailable")
)

// NotFoundError wraps ErrNotFound with additional context.
type NotFoundError struct {
	Ecosystem string
	Name      string
	Version   string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("%s: package %s version %s not found", e.Ecosystem, e.Name, e.Version)
	}
	return fmt.Sprintf("%s: package %s not found", e.Ecosystem, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NoSatisfyingVersionError reports that no known version of a package
// matched a constraint.
type NoSatisfyingVersionError struct {
	Name       string
	Constraint string // empty when any version was acceptable
}

func (e *NoSatisfyingVersionError) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("no version of %s available", e.Name)
	}
	return fmt.Sprintf("no version of %s satisfies %q", e.Name, e.Constraint)
}

func (e *NoSatisfyingVersionError) Unwrap() error {
	return ErrNoSatisfyingVersion
}

// UnknownFeatureError reports a requested feature absent from a package's
// manifest.
type UnknownFeatureError struct {
	Package string
	Feature string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("package %s has no feature %q", e.Package, e.Feature)
}

func (e *UnknownFeatureError) Unwrap() error {
	return ErrUnknownFeature
}

// DependencyCycleError reports a package reached again while it was still
// on the active traversal path. Path holds the cycle, ending with the
// repeated package.
type DependencyCycleError struct {
	Path []PackageVersion
}

func (e *DependencyCycleError) Error() string {
	steps := make([]string, len(e.Path))
	for i, p := range e.Path {
		steps[i] = p.String()
	}
	return "dependency cycle: " + strings.Join(steps, " -> ")
}

func (e *DependencyCycleError) Unwrap() error {
	return ErrDependencyCycle
}

// VersionConflictError reports an edge whose constraint the already
// committed version of a package fails. The conflict is attributed to the
// later edge; the committed version is never silently replaced.
type VersionConflictError struct {
	Name       string
	Have       string // version committed earlier in this resolution
	Constraint string
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s@%s already selected, conflicting requirement %q", e.Name, e.Have, e.Constraint)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}
