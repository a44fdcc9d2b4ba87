package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/git-pkgs/resolve"
	_ "github.com/git-pkgs/resolve/all"
	"github.com/git-pkgs/resolve/manifest"
)

func supportedEcosystems() []string {
	ecosystems := resolve.SupportedEcosystems()
	sort.Strings(ecosystems)
	return ecosystems
}

// treeOutput is the JSON shape emitted by --json.
type treeOutput struct {
	Packages []packageOutput `json:"packages"`
	Errors   []errorOutput   `json:"errors"`
}

type packageOutput struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type errorOutput struct {
	Feature string `json:"feature"`
	Error   string `json:"error"`
}

func newTreeCmd() *cobra.Command {
	var (
		features     []string
		allFeatures  bool
		ecosystem    string
		registry     string
		configPath   string
		manifestPath string
		jsonOut      bool
		breaker      bool
	)

	cmd := &cobra.Command{
		Use:   "tree [package[@constraint] | pkg:ecosystem/name@constraint]",
		Short: "Resolve the transitive dependency tree of a package",
		Long: `Resolve the transitive dependency tree of a registry-hosted package.

The package may be given as a bare name, a name with a version constraint
(serde@^1.0), or a Package URL (pkg:cargo/serde@1.0.164). With --manifest,
the tree of a local Cargo.toml is resolved instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if len(args) == 0 && manifestPath == "" {
				return errors.New("a package argument or --manifest is required")
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if ecosystem != "" {
				cfg.Ecosystem = ecosystem
			}
			if registry != "" {
				cfg.Registry = registry
			}

			name, constraint := "", ""
			if len(args) == 1 {
				if strings.HasPrefix(args[0], "pkg:") {
					p, err := resolve.ParsePURL(args[0])
					if err != nil {
						return err
					}
					cfg.Ecosystem = p.Type
					name, constraint = p.Name, p.Version
				} else {
					name, constraint = splitSpec(args[0])
				}
			}

			c := resolve.NewClient(
				resolve.WithTimeout(time.Duration(cfg.Timeout)*time.Second),
				resolve.WithMaxRetries(cfg.MaxRetries),
			)
			prov, err := resolve.New(cfg.Ecosystem, cfg.Registry, c)
			if err != nil {
				return err
			}

			opts := []resolve.ResolverOption{resolve.WithPrefetch(cfg.Concurrency)}
			if breaker {
				opts = append(opts, resolve.WithCircuitBreaker())
			}
			r := resolve.NewResolver(prov, opts...)

			start := time.Now()
			var tree *resolve.Tree
			switch {
			case manifestPath != "":
				m, err := manifest.Load(manifestPath)
				if err != nil {
					return err
				}
				logger.Debug("resolving local manifest", "path", manifestPath, "package", m.Name)
				tree, err = r.ResolveManifest(ctx, m, features)
				if err != nil {
					return err
				}
			case allFeatures:
				logger.Debug("resolving with all features", "package", name, "constraint", constraint)
				tree, err = r.DependenciesAllFeatures(ctx, name, constraint)
				if err != nil {
					return err
				}
			case len(features) > 0:
				logger.Debug("resolving", "package", name, "features", strings.Join(features, ","))
				tree, err = r.DependenciesWithFeatures(ctx, name, constraint, features)
				if err != nil {
					return err
				}
			default:
				logger.Debug("resolving", "package", name, "constraint", constraint)
				tree, err = r.Dependencies(ctx, name, constraint)
				if err != nil {
					return err
				}
			}
			logger.Debug("resolved", "packages", len(tree.Packages), "errors", len(tree.Errors), "elapsed", time.Since(start))

			if jsonOut {
				out := treeOutput{Packages: []packageOutput{}, Errors: []errorOutput{}}
				for _, p := range tree.Packages {
					out.Packages = append(out.Packages, packageOutput{Name: p.Name, Version: p.Version})
				}
				for _, fe := range tree.Errors {
					out.Errors = append(out.Errors, errorOutput{Feature: fe.Feature, Error: fe.Err.Error()})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			for _, p := range tree.Packages {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", p.Name, p.Version)
			}
			for _, fe := range tree.Errors {
				logger.Warn("feature failed", "feature", fe.Feature, "err", fe.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&features, "features", "f", nil, "features to activate on the root package")
	cmd.Flags().BoolVar(&allFeatures, "all-features", false, "expand every dependency-activating feature of the root")
	cmd.Flags().StringVarP(&ecosystem, "ecosystem", "e", "", "registry ecosystem (default cargo)")
	cmd.Flags().StringVar(&registry, "registry", "", "registry base URL override")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "resolve a local Cargo.toml instead of a published package")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the tree as JSON")
	cmd.Flags().BoolVar(&breaker, "circuit-breaker", false, "fail fast when the registry is unavailable")

	return cmd
}

// splitSpec separates "name@constraint" into its parts. The last @ wins,
// so names containing @ (npm scopes) keep working.
func splitSpec(spec string) (name, constraint string) {
	if i := strings.LastIndex(spec, "@"); i > 0 {
		return spec[:i], spec[i+1:]
	}
	return spec, ""
}
