package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/git-pkgs/resolve/internal/core"
)

// breakerProvider wraps a provider with a circuit breaker so a registry
// outage fails fast instead of hammering a dead endpoint. Not-found
// answers are ordinary outcomes and never count against the breaker.
type breakerProvider struct {
	p       core.Provider
	breaker *circuit.Breaker
}

func newBreakerProvider(p core.Provider) *breakerProvider {
	// Trips after 5 consecutive failures, reopening on an exponential
	// schedule.
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	opts := &circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ConsecutiveTripFunc(5),
	}
	return &breakerProvider{
		p:       p,
		breaker: circuit.NewBreakerWithOptions(opts),
	}
}

func (b *breakerProvider) Ecosystem() string {
	return b.p.Ecosystem()
}

func (b *breakerProvider) call(fn func() error) error {
	if !b.breaker.Ready() {
		return fmt.Errorf("circuit breaker open for %s: %w", b.p.Ecosystem(), core.ErrProviderUnavailable)
	}

	var notFound error
	err := b.breaker.Call(func() error {
		err := fn()
		if err != nil && errors.Is(err, core.ErrNotFound) {
			notFound = err
			return nil
		}
		return err
	}, 0)

	if notFound != nil {
		return notFound
	}
	return err
}

func (b *breakerProvider) ListVersions(ctx context.Context, name string) ([]core.Version, error) {
	var versions []core.Version
	err := b.call(func() error {
		var err error
		versions, err = b.p.ListVersions(ctx, name)
		return err
	})
	return versions, err
}

func (b *breakerProvider) GetManifest(ctx context.Context, name, version string) (*core.Manifest, error) {
	var manifest *core.Manifest
	err := b.call(func() error {
		var err error
		manifest, err = b.p.GetManifest(ctx, name, version)
		return err
	})
	return manifest, err
}
