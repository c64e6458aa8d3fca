// Package commands implements the gowscctl command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the top-level cobra command for gowscctl.
var rootCmd = &cobra.Command{
	Use:   "gowscctl",
	Short: "CLI client for the gowscd daemon",
	Long:  "gowscctl communicates with the gowscd daemon over D-Bus to inspect the enrollee session.",
	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
