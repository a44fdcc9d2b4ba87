package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. This is
// typically called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the resolve CLI and returns an error if any command fails.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "resolve",
		Short:        "resolve computes transitive dependency trees from package registries",
		Long:         `resolve walks the dependency graph of a registry-hosted package, selecting the highest version satisfying every constraint, expanding feature-gated optional dependencies, and reporting features whose subtrees fail without aborting the rest.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("resolve %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newTreeCmd())
	root.AddCommand(newEcosystemsCmd())

	return root.ExecuteContext(ctx)
}

// newEcosystemsCmd lists the registered registry providers.
func newEcosystemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ecosystems",
		Short: "List supported registry ecosystems",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, eco := range supportedEcosystems() {
				fmt.Fprintln(cmd.OutOrStdout(), eco)
			}
			return nil
		},
	}
}
