package core

import (
	"context"
	"sync"

	"github.com/git-pkgs/resolve/internal/version"
)

const defaultConcurrency = 15

// LatestVersion returns the highest stable, non-yanked version of name.
// Returns nil if no valid versions exist.
func LatestVersion(ctx context.Context, p Provider, name string) (*Version, error) {
	versions, err := p.ListVersions(ctx, name)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[string]*Version, len(versions))
	numbers := make([]string, 0, len(versions))
	for i, v := range versions {
		if v.Status != StatusNone {
			continue
		}
		byNumber[v.Number] = &versions[i]
		numbers = append(numbers, v.Number)
	}

	max, ok, err := version.MaxSatisfying(numbers, "")
	if err != nil || !ok {
		return nil, err
	}
	return byNumber[max], nil
}

// BulkListVersions fetches version lists for several packages in parallel.
// Individual fetch errors are silently ignored - those names are omitted
// from the result. Used to warm caches ahead of a traversal frontier.
func BulkListVersions(ctx context.Context, p Provider, names []string, concurrency int) map[string][]Version {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	results := make(map[string][]Version)
	var mu sync.Mutex
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			versions, err := p.ListVersions(ctx, n)
			if err == nil && versions != nil {
				mu.Lock()
				results[n] = versions
				mu.Unlock()
			}
		}(name)
	}

	wg.Wait()
	return results
}
