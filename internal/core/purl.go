package core

import (
	packageurl "github.com/package-url/packageurl-go"

	"github.com/git-pkgs/resolve/client"
)

// PURL wraps packageurl.PackageURL with registry-specific helpers.
type PURL struct {
	packageurl.PackageURL
}

// FullName returns the package name in the format expected by the registry.
func (p PURL) FullName() string {
	if p.Namespace == "" {
		return p.Name
	}
	return p.Namespace + "/" + p.Name
}

// ParsePURL parses a Package URL string into its components.
// Supports both package PURLs (pkg:cargo/serde) and version PURLs
// (pkg:cargo/serde@1.0.0); the version slot may also carry a range
// expression to be used as a constraint.
func ParsePURL(purl string) (*PURL, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return nil, err
	}
	return &PURL{p}, nil
}

// NewFromPURL creates a provider from a PURL and returns the parsed
// components: the provider, full package name, and version (empty if not
// in the PURL). If the PURL has a repository_url qualifier, it is used as
// the base URL for private registries.
func NewFromPURL(purl string, c *client.Client) (Provider, string, string, error) {
	p, err := ParsePURL(purl)
	if err != nil {
		return nil, "", "", err
	}

	baseURL := p.Qualifiers.Map()["repository_url"]

	prov, err := New(p.Type, baseURL, c)
	if err != nil {
		return nil, "", "", err
	}

	return prov, p.FullName(), p.Version, nil
}
