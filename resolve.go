// Package resolve computes the full transitive dependency tree of a
// package hosted in a versioned package registry.
//
// Given a package name and an optional version constraint, the resolver
// selects the highest satisfying version, expands feature-gated optional
// dependencies, and walks the dependency graph, deduplicating shared
// dependencies and detecting cycles. Features whose subtrees cannot be
// resolved are reported alongside the partial result instead of aborting
// the walk.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/git-pkgs/resolve"
//		_ "github.com/git-pkgs/resolve/all"
//	)
//
//	prov, err := resolve.New("cargo", "", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := resolve.NewResolver(prov)
//	tree, err := r.Dependencies(context.Background(), "serde", "^1.0")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, pkg := range tree.Packages {
//		fmt.Println(pkg.Name, pkg.Version)
//	}
//	for _, fe := range tree.Errors {
//		fmt.Println("feature", fe.Feature, "failed:", fe.Err)
//	}
package resolve

import (
	"context"

	"github.com/git-pkgs/purl"
	"github.com/git-pkgs/resolve/client"
	"github.com/git-pkgs/resolve/internal/core"
	"github.com/git-pkgs/resolve/internal/resolver"
)

// Re-export types from internal/core
type (
	// Provider supplies package versions and manifests from a registry.
	Provider = core.Provider

	// PackageVersion identifies a concrete release of a package.
	PackageVersion = core.PackageVersion

	// Version represents a specific version of a package.
	Version = core.Version

	// VersionStatus represents the status of a package version.
	VersionStatus = core.VersionStatus

	// DependencyEdge represents one declared dependency of a package version.
	DependencyEdge = core.DependencyEdge

	// Manifest is a package version's dependency and feature declarations.
	Manifest = core.Manifest

	// FeatureError records why a feature's dependency subtree failed.
	FeatureError = core.FeatureError

	// Tree is the outcome of one resolution: resolved packages plus
	// per-feature errors.
	Tree = core.Tree
)

// Re-export types from client
type (
	// Client is an HTTP client with retry logic for registry APIs.
	Client = client.Client

	// Option configures a Client.
	Option = client.Option
)

// Re-export constants
const (
	StatusNone   = core.StatusNone
	StatusYanked = core.StatusYanked

	// DefaultFeature is the pseudo-feature failures on unconditional
	// edges are attributed to.
	DefaultFeature = core.DefaultFeature
)

// Re-export errors
var (
	ErrNotFound            = core.ErrNotFound
	ErrNoSatisfyingVersion = core.ErrNoSatisfyingVersion
	ErrUnknownFeature      = core.ErrUnknownFeature
	ErrDependencyCycle     = core.ErrDependencyCycle
	ErrVersionConflict     = core.ErrVersionConflict
	ErrProviderUnavailable = core.ErrProviderUnavailable
)

// Error types
type (
	HTTPError                = client.HTTPError
	RateLimitError           = client.RateLimitError
	NotFoundError            = core.NotFoundError
	NoSatisfyingVersionError = core.NoSatisfyingVersionError
	UnknownFeatureError      = core.UnknownFeatureError
	DependencyCycleError     = core.DependencyCycleError
	VersionConflictError     = core.VersionConflictError
)

// New creates a new provider for the given ecosystem.
// If baseURL is empty, the default registry URL is used.
// If c is nil, DefaultClient() is used.
//
// Note: ecosystems must be imported to be registered; importing the all
// subpackage registers every bundled provider.
func New(ecosystem string, baseURL string, c *Client) (Provider, error) {
	return core.New(ecosystem, baseURL, c)
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - 5 retries with exponential backoff
// - Retry on 429 and 5xx responses
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	return client.NewClient(opts...)
}

// WithTimeout sets the HTTP client timeout.
var WithTimeout = client.WithTimeout

// WithMaxRetries sets the maximum number of retries.
var WithMaxRetries = client.WithMaxRetries

// SupportedEcosystems returns all registered ecosystem types.
func SupportedEcosystems() []string {
	return core.SupportedEcosystems()
}

// DefaultURL returns the default registry URL for an ecosystem.
func DefaultURL(ecosystem string) string {
	return core.DefaultURL(ecosystem)
}

// Resolver computes transitive dependency trees from a Provider.
type Resolver = resolver.Resolver

// ResolverOption configures a Resolver.
type ResolverOption = resolver.Option

// WithPrefetch sets how many sibling metadata fetches may run
// concurrently while warming the metadata memo.
var WithPrefetch = resolver.WithPrefetch

// WithCircuitBreaker wraps the provider in a circuit breaker so a
// registry outage fails fast.
var WithCircuitBreaker = resolver.WithCircuitBreaker

// NewResolver creates a Resolver over prov. Provider responses are
// memoized for the Resolver's lifetime; resolution decisions are not.
func NewResolver(prov Provider, opts ...ResolverOption) *Resolver {
	return resolver.New(prov, opts...)
}

// PURL represents a parsed Package URL.
type PURL = purl.PURL

// ParsePURL parses a Package URL string into its components.
// Supports both package PURLs (pkg:cargo/serde) and version PURLs
// (pkg:cargo/serde@1.0.0).
func ParsePURL(purlStr string) (*PURL, error) {
	return purl.Parse(purlStr)
}

// NewFromPURL creates a provider from a PURL and returns the parsed
// components. Returns the provider, full package name, and version
// (empty if not in PURL).
func NewFromPURL(purlStr string, c *Client) (Provider, string, string, error) {
	return core.NewFromPURL(purlStr, c)
}

// DependenciesFromPURL resolves the dependency tree for a package
// identified by a PURL. The PURL's version slot, when present, is used
// as the constraint (pkg:cargo/serde@1.0.164).
func DependenciesFromPURL(ctx context.Context, purlStr string, c *Client) (*Tree, error) {
	prov, name, constraint, err := core.NewFromPURL(purlStr, c)
	if err != nil {
		return nil, err
	}
	return resolver.New(prov).Dependencies(ctx, name, constraint)
}
