package resolver

import (
	"errors"
	"testing"

	"github.com/git-pkgs/resolve/internal/core"
)

func TestActivateRequiredEdgesAlwaysEnabled(t *testing.T) {
	m := &core.Manifest{
		Name:    "demo",
		Version: "1.0.0",
		Edges: []core.DependencyEdge{
			{Name: "core-utils", Req: "^1.0"},
			{Name: "sockets", Req: "^2.0", Optional: true},
		},
	}

	act := activate(m, nil, "")
	if len(act.errors) != 0 {
		t.Fatalf("unexpected errors: %v", act.errors)
	}
	if len(act.edges) != 1 || act.edges[0].Name != "core-utils" {
		t.Fatalf("expected only the required edge, got %v", act.edges)
	}
}

func TestActivateFeatureChain(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Features: map[string][]string{
			"default": {"std"},
			"std":     {"alloc"},
			"alloc":   {},
		},
	}

	act := activate(m, []string{"default"}, "")
	for _, f := range []string{"default", "std", "alloc"} {
		if !act.features[f] {
			t.Errorf("expected feature %q to be active", f)
		}
	}
	if len(act.errors) != 0 {
		t.Errorf("unexpected errors: %v", act.errors)
	}
}

func TestActivateDepValueEnablesOptionalEdge(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Edges: []core.DependencyEdge{
			{Name: "sockets", Req: "^2.0", Optional: true},
		},
		Features: map[string][]string{
			"net": {"dep:sockets"},
		},
	}

	act := activate(m, []string{"net"}, "")
	if len(act.edges) != 1 {
		t.Fatalf("expected one edge, got %v", act.edges)
	}
	if act.edges[0].Name != "sockets" || act.edges[0].ActivatedBy != "net" {
		t.Errorf("unexpected edge: %+v", act.edges[0])
	}
}

func TestActivateImplicitFeature(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Edges: []core.DependencyEdge{
			{Name: "sockets", Req: "^2.0", Optional: true},
		},
	}

	// With no "dep:sockets" reference anywhere, the optional dependency
	// keeps an implicit feature of the same name.
	act := activate(m, []string{"sockets"}, "")
	if len(act.errors) != 0 {
		t.Fatalf("unexpected errors: %v", act.errors)
	}
	if len(act.edges) != 1 || act.edges[0].Name != "sockets" {
		t.Fatalf("expected sockets edge, got %v", act.edges)
	}
}

func TestActivateExplicitDepSuppressesImplicitFeature(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Edges: []core.DependencyEdge{
			{Name: "sockets", Req: "^2.0", Optional: true},
		},
		Features: map[string][]string{
			"net": {"dep:sockets"},
		},
	}

	act := activate(m, []string{"sockets"}, "")
	if len(act.errors) != 1 {
		t.Fatalf("expected one error, got %v", act.errors)
	}
	if !errors.Is(act.errors[0], core.ErrUnknownFeature) {
		t.Errorf("expected unknown feature error, got %v", act.errors[0])
	}
}

func TestActivateUnknownFeature(t *testing.T) {
	m := &core.Manifest{Name: "demo", Features: map[string][]string{}}

	act := activate(m, []string{"nope"}, "")
	if len(act.errors) != 1 {
		t.Fatalf("expected one error, got %v", act.errors)
	}
	var ufe *core.UnknownFeatureError
	if !errors.As(act.errors[0], &ufe) {
		t.Fatal("expected UnknownFeatureError")
	}
	if ufe.Feature != "nope" || act.errors[0].Feature != "nope" {
		t.Errorf("unexpected attribution: %+v", act.errors[0])
	}
}

func TestActivateErrorAttributedToRequestedFeature(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Features: map[string][]string{
			"outer": {"inner"},
		},
	}

	// "inner" does not exist; the failure belongs to the feature the
	// caller asked for, not the value that tripped it.
	act := activate(m, []string{"outer"}, "")
	if len(act.errors) != 1 {
		t.Fatalf("expected one error, got %v", act.errors)
	}
	if act.errors[0].Feature != "outer" {
		t.Errorf("expected attribution to outer, got %q", act.errors[0].Feature)
	}
}

func TestActivateOriginOverridesAttribution(t *testing.T) {
	m := &core.Manifest{Name: "demo", Features: map[string][]string{}}

	act := activate(m, []string{"nope"}, "opened-by")
	if len(act.errors) != 1 {
		t.Fatalf("expected one error, got %v", act.errors)
	}
	if act.errors[0].Feature != "opened-by" {
		t.Errorf("expected attribution to origin, got %q", act.errors[0].Feature)
	}
}

func TestActivateForwardedFeature(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Edges: []core.DependencyEdge{
			{Name: "sockets", Req: "^2.0", Optional: true},
		},
		Features: map[string][]string{
			"secure": {"sockets/tls"},
		},
	}

	act := activate(m, []string{"secure"}, "")
	if len(act.edges) != 1 {
		t.Fatalf("expected one edge, got %v", act.edges)
	}
	e := act.edges[0]
	if e.Name != "sockets" {
		t.Fatalf("unexpected edge: %+v", e)
	}
	if len(e.Features) != 1 || e.Features[0] != "tls" {
		t.Errorf("expected tls forwarded, got %v", e.Features)
	}
}

func TestActivateWeakForward(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Edges: []core.DependencyEdge{
			{Name: "sockets", Req: "^2.0", Optional: true},
		},
		Features: map[string][]string{
			"net":    {"dep:sockets"},
			"secure": {"sockets?/tls"},
		},
	}

	// Weak alone: the optional edge stays off and no feature is forwarded.
	act := activate(m, []string{"secure"}, "")
	if len(act.edges) != 0 {
		t.Fatalf("weak forward must not enable the edge, got %v", act.edges)
	}

	// Weak plus an enabler: the forward applies.
	act = activate(m, []string{"secure", "net"}, "")
	if len(act.edges) != 1 {
		t.Fatalf("expected one edge, got %v", act.edges)
	}
	if got := act.edges[0].Features; len(got) != 1 || got[0] != "tls" {
		t.Errorf("expected tls forwarded, got %v", got)
	}
}

func TestActivateWeakForwardToRequiredEdge(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Edges: []core.DependencyEdge{
			{Name: "sockets", Req: "^2.0"},
		},
		Features: map[string][]string{
			"secure": {"sockets?/tls"},
		},
	}

	act := activate(m, []string{"secure"}, "")
	if len(act.edges) != 1 {
		t.Fatalf("expected one edge, got %v", act.edges)
	}
	if got := act.edges[0].Features; len(got) != 1 || got[0] != "tls" {
		t.Errorf("expected tls forwarded to required edge, got %v", got)
	}
}

func TestActivateEdgesKeepManifestOrder(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Edges: []core.DependencyEdge{
			{Name: "zeta", Req: "^1.0"},
			{Name: "alpha", Req: "^1.0"},
			{Name: "mid", Req: "^1.0", Optional: true},
		},
		Features: map[string][]string{
			"extras": {"dep:mid"},
		},
	}

	act := activate(m, []string{"extras"}, "")
	want := []string{"zeta", "alpha", "mid"}
	if len(act.edges) != len(want) {
		t.Fatalf("expected %d edges, got %v", len(want), act.edges)
	}
	for i, name := range want {
		if act.edges[i].Name != name {
			t.Errorf("edge %d: expected %q, got %q", i, name, act.edges[i].Name)
		}
	}
}

func TestDepFeatures(t *testing.T) {
	m := &core.Manifest{
		Name: "demo",
		Features: map[string][]string{
			"default": {"std"},
			"std":     {},
			"net":     {"dep:sockets"},
			"secure":  {"sockets?/tls"},
			"full":    {"compat/legacy"},
		},
	}

	got := depFeatures(m)
	want := []string{"full", "net", "secure"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}
