package core

import (
	"errors"
	"strings"
	"testing"
)

func TestNotFoundErrorUnwrapsSentinel(t *testing.T) {
	err := &NotFoundError{Ecosystem: "cargo", Name: "serde"}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected NotFoundError to unwrap to ErrNotFound")
	}
	if got := err.Error(); got != "cargo: package serde not found" {
		t.Errorf("unexpected message: %q", got)
	}

	withVersion := &NotFoundError{Ecosystem: "cargo", Name: "serde", Version: "1.0.0"}
	if got := withVersion.Error(); got != "cargo: package serde version 1.0.0 not found" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestResolutionErrorsUnwrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"no satisfying version", &NoSatisfyingVersionError{Name: "a", Constraint: "^1.0"}, ErrNoSatisfyingVersion},
		{"unknown feature", &UnknownFeatureError{Package: "a", Feature: "net"}, ErrUnknownFeature},
		{"dependency cycle", &DependencyCycleError{Path: []PackageVersion{{"a", "1.0.0"}, {"b", "1.0.0"}, {"a", "1.0.0"}}}, ErrDependencyCycle},
		{"version conflict", &VersionConflictError{Name: "a", Have: "1.0.0", Constraint: "^2.0"}, ErrVersionConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("expected %v to unwrap to sentinel", tt.err)
			}
		})
	}
}

func TestFeatureErrorWrapsCause(t *testing.T) {
	cause := &NoSatisfyingVersionError{Name: "sockets", Constraint: "^2.0"}
	fe := FeatureError{Feature: "net", Err: cause}

	if !errors.Is(fe, ErrNoSatisfyingVersion) {
		t.Error("expected FeatureError to unwrap to its cause's sentinel")
	}

	var nsv *NoSatisfyingVersionError
	if !errors.As(fe, &nsv) {
		t.Fatal("expected errors.As to find NoSatisfyingVersionError")
	}
	if nsv.Name != "sockets" {
		t.Errorf("unexpected name: %q", nsv.Name)
	}
}

func TestDependencyCycleErrorMessage(t *testing.T) {
	err := &DependencyCycleError{Path: []PackageVersion{{"a", "1.0.0"}, {"b", "2.0.0"}, {"a", "1.0.0"}}}
	want := "a@1.0.0 -> b@2.0.0 -> a@1.0.0"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("expected message to contain %q, got %q", want, err.Error())
	}
}

func TestNoSatisfyingVersionErrorMessages(t *testing.T) {
	unconstrained := &NoSatisfyingVersionError{Name: "sockets"}
	if got := unconstrained.Error(); got != "no version of sockets available" {
		t.Errorf("unexpected message: %q", got)
	}
	constrained := &NoSatisfyingVersionError{Name: "sockets", Constraint: "^2.0"}
	if got := constrained.Error(); got != `no version of sockets satisfies "^2.0"` {
		t.Errorf("unexpected message: %q", got)
	}
}
