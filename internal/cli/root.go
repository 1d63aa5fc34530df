package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "forgec",
	Short: "Semantic core driver for Forge/Sweet ownership analysis",
	Long: `forgec runs the symbol table, memory analyzer, semantic analyzer, and
variant generator over a serialized AST fixture.

Parsing real Forge or Sweet source is out of scope for this driver: it
consumes JSON AST fixtures (see "forgec check") rather than source files.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
