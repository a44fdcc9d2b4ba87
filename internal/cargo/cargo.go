// Package cargo provides a crates.io metadata provider.
package cargo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/git-pkgs/resolve/client"
	"github.com/git-pkgs/resolve/internal/core"
)

const (
	DefaultURL = "https://crates.io"
	ecosystem  = "cargo"
)

func init() {
	core.Register(ecosystem, DefaultURL, func(baseURL string, c *client.Client) core.Provider {
		return New(baseURL, c)
	})
}

// Provider fetches crate metadata from the crates.io API.
type Provider struct {
	baseURL string
	client  *client.Client
}

func New(baseURL string, c *client.Client) *Provider {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if c == nil {
		c = client.DefaultClient()
	}
	return &Provider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  c,
	}
}

func (p *Provider) Ecosystem() string {
	return ecosystem
}

type crateResponse struct {
	Versions []versionInfo `json:"versions"`
}

type versionInfo struct {
	Num       string              `json:"num"`
	Yanked    bool                `json:"yanked"`
	CreatedAt string              `json:"created_at"`
	Features  map[string][]string `json:"features"`
}

type dependenciesResponse struct {
	Dependencies []dependencyInfo `json:"dependencies"`
}

type dependencyInfo struct {
	CrateID         string   `json:"crate_id"`
	Req             string   `json:"req"`
	Kind            string   `json:"kind"`
	Optional        bool     `json:"optional"`
	DefaultFeatures bool     `json:"default_features"`
	Features        []string `json:"features"`
}

func (p *Provider) fetchCrate(ctx context.Context, name string) (*crateResponse, error) {
	url := fmt.Sprintf("%s/api/v1/crates/%s", p.baseURL, name)

	var resp crateResponse
	if err := p.client.GetJSON(ctx, url, &resp); err != nil {
		if httpErr, ok := err.(*client.HTTPError); ok && httpErr.IsNotFound() {
			return nil, &core.NotFoundError{Ecosystem: ecosystem, Name: name}
		}
		return nil, err
	}
	return &resp, nil
}

func (p *Provider) ListVersions(ctx context.Context, name string) ([]core.Version, error) {
	resp, err := p.fetchCrate(ctx, name)
	if err != nil {
		return nil, err
	}

	versions := make([]core.Version, len(resp.Versions))
	for i, v := range resp.Versions {
		var publishedAt time.Time
		if v.CreatedAt != "" {
			publishedAt, _ = time.Parse(time.RFC3339, v.CreatedAt)
		}

		var status core.VersionStatus
		if v.Yanked {
			status = core.StatusYanked
		}

		versions[i] = core.Version{
			Number:      v.Num,
			PublishedAt: publishedAt,
			Status:      status,
		}
	}

	return versions, nil
}

func (p *Provider) GetManifest(ctx context.Context, name, version string) (*core.Manifest, error) {
	crate, err := p.fetchCrate(ctx, name)
	if err != nil {
		return nil, err
	}

	var features map[string][]string
	found := false
	for _, v := range crate.Versions {
		if v.Num == version {
			features = v.Features
			found = true
			break
		}
	}
	if !found {
		return nil, &core.NotFoundError{Ecosystem: ecosystem, Name: name, Version: version}
	}

	url := fmt.Sprintf("%s/api/v1/crates/%s/%s/dependencies", p.baseURL, name, version)

	var resp dependenciesResponse
	if err := p.client.GetJSON(ctx, url, &resp); err != nil {
		if httpErr, ok := err.(*client.HTTPError); ok && httpErr.IsNotFound() {
			return nil, &core.NotFoundError{Ecosystem: ecosystem, Name: name, Version: version}
		}
		return nil, err
	}

	edges := make([]core.DependencyEdge, 0, len(resp.Dependencies))
	for _, d := range resp.Dependencies {
		// Dev dependencies never flow into a consumer's tree.
		if d.Kind == "dev" {
			continue
		}
		edges = append(edges, core.DependencyEdge{
			Name:            d.CrateID,
			Req:             normalizeReq(d.Req),
			Optional:        d.Optional,
			Features:        d.Features,
			DefaultFeatures: d.DefaultFeatures,
		})
	}

	return &core.Manifest{
		Name:     name,
		Version:  version,
		Edges:    edges,
		Features: features,
	}, nil
}

// normalizeReq maps the crates.io wildcard requirement to the empty
// constraint the resolver treats as "any version".
func normalizeReq(req string) string {
	if req == "*" {
		return ""
	}
	return req
}
