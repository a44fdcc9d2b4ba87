// Package version isolates semantic-version comparison behind a narrow
// surface so the exact matching rules (pre-release handling, wildcard
// ranges) can be swapped or tested independently of the graph walk.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Satisfies reports whether v matches the range expression constraint.
// An empty constraint matches any version.
func Satisfies(v, constraint string) (bool, error) {
	ver, err := semver.NewVersion(v)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", v, err)
	}
	if constraint == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	return c.Check(ver), nil
}

// MaxSatisfying returns the highest candidate matching constraint, and
// whether any candidate matched. Candidates that do not parse as semantic
// versions are skipped; registries hold the occasional junk number.
// Under an empty constraint pre-release versions are considered only when
// no stable version exists.
func MaxSatisfying(candidates []string, constraint string) (string, bool, error) {
	var c *semver.Constraints
	if constraint != "" {
		parsed, err := semver.NewConstraint(constraint)
		if err != nil {
			return "", false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
		}
		c = parsed
	}

	var best, bestPre *semver.Version
	for _, raw := range candidates {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if c != nil {
			// The constraint decides pre-release eligibility.
			if !c.Check(v) {
				continue
			}
			if best == nil || v.GreaterThan(best) {
				best = v
			}
			continue
		}
		if v.Prerelease() != "" {
			if bestPre == nil || v.GreaterThan(bestPre) {
				bestPre = v
			}
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}

	if best != nil {
		return best.Original(), true, nil
	}
	if bestPre != nil {
		return bestPre.Original(), true, nil
	}
	return "", false, nil
}
