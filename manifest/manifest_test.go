package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

const cargoToml = `
[package]
name = "local-project"
version = "0.3.1"

[dependencies]
serde = "1.0"
sockets = { version = "2.0", optional = true, default-features = false, features = ["tls"] }
fast-hash = { version = "1.1", package = "ahash" }

[build-dependencies]
cc-shim = "0.5"

[dev-dependencies]
quickcheck = "1.0"

[features]
default = ["std"]
std = []
net = ["dep:sockets"]
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(cargoToml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Name != "local-project" || m.Version != "0.3.1" {
		t.Errorf("unexpected identity: %s@%s", m.Name, m.Version)
	}

	// Dependencies sorted by name, then build dependencies; dev
	// dependencies are dropped.
	want := []string{"ahash", "serde", "sockets", "cc-shim"}
	if len(m.Edges) != len(want) {
		t.Fatalf("expected %d edges, got %+v", len(want), m.Edges)
	}
	for i, name := range want {
		if m.Edges[i].Name != name {
			t.Errorf("edge %d: expected %q, got %q", i, name, m.Edges[i].Name)
		}
	}

	for _, e := range m.Edges {
		switch e.Name {
		case "serde":
			if e.Req != "1.0" || e.Optional || !e.DefaultFeatures {
				t.Errorf("unexpected serde edge: %+v", e)
			}
		case "sockets":
			if e.Req != "2.0" || !e.Optional || e.DefaultFeatures {
				t.Errorf("unexpected sockets edge: %+v", e)
			}
			if len(e.Features) != 1 || e.Features[0] != "tls" {
				t.Errorf("unexpected sockets features: %v", e.Features)
			}
		case "ahash":
			// Renamed dependency resolves under its registry name.
			if e.Req != "1.1" {
				t.Errorf("unexpected ahash edge: %+v", e)
			}
		}
	}

	if len(m.Features["net"]) != 1 || m.Features["net"][0] != "dep:sockets" {
		t.Errorf("unexpected features: %v", m.Features)
	}
	if len(m.Features["default"]) != 1 || m.Features["default"][0] != "std" {
		t.Errorf("unexpected default feature: %v", m.Features)
	}
}

func TestParseInvalidTOML(t *testing.T) {
	if _, err := Parse([]byte("[package\nname =")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseUnsupportedDeclaration(t *testing.T) {
	if _, err := Parse([]byte("[dependencies]\nserde = 42\n")); err == nil {
		t.Fatal("expected error for numeric dependency declaration")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.toml")
	if err := os.WriteFile(path, []byte(cargoToml), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != "local-project" {
		t.Errorf("unexpected name: %q", m.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "Cargo.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
