package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/git-pkgs/resolve/client"
)

// Provider supplies package metadata from a registry: the known versions
// of a package and, per version, its manifest. Implementations return a
// *NotFoundError when a name or version is unknown; other failures are
// passed through to the caller unreinterpreted.
type Provider interface {
	// Ecosystem returns the PURL type for this provider (e.g., "cargo").
	Ecosystem() string

	// ListVersions retrieves all known versions of a package.
	ListVersions(ctx context.Context, name string) ([]Version, error)

	// GetManifest retrieves the dependency and feature declarations of
	// one version of a package.
	GetManifest(ctx context.Context, name, version string) (*Manifest, error)
}

// Factory creates a provider instance for a given base URL.
type Factory func(baseURL string, client *client.Client) Provider

var (
	factories = make(map[string]Factory)
	defaults  = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a provider factory to the global registry.
// ecosystem is the PURL type (e.g., "cargo").
// defaultURL is the default registry URL for the ecosystem.
func Register(ecosystem string, defaultURL string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[ecosystem] = factory
	defaults[ecosystem] = defaultURL
}

// New creates a new provider for the given ecosystem.
// If baseURL is empty, the default registry URL is used.
func New(ecosystem string, baseURL string, c *client.Client) (Provider, error) {
	mu.RLock()
	factory, ok := factories[ecosystem]
	defaultURL := defaults[ecosystem]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown ecosystem: %s", ecosystem)
	}

	if baseURL == "" {
		baseURL = defaultURL
	}

	if c == nil {
		c = client.DefaultClient()
	}

	return factory(baseURL, c), nil
}

// SupportedEcosystems returns all registered ecosystem types.
func SupportedEcosystems() []string {
	mu.RLock()
	defer mu.RUnlock()

	ecosystems := make([]string, 0, len(factories))
	for eco := range factories {
		ecosystems = append(ecosystems, eco)
	}
	return ecosystems
}

// DefaultURL returns the default registry URL for an ecosystem.
func DefaultURL(ecosystem string) string {
	mu.RLock()
	defer mu.RUnlock()
	return defaults[ecosystem]
}
