package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for vtoggle
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vtoggle",
		Short: "Version toggling for tagged source regions",
		Long: `vtoggle builds a copy of a source tree in which every version-tagged
region is resolved against a set of feature conditions.

Regions are bracketed by comment tags naming a feature and a version:

  // checkout v(2.1.0)
  renderNewCheckout();
  // end checkout v(2.1.0)

For each feature one version survives (its tags are stripped and its body
kept); every other region of that feature is removed together with its body.
CSS, HTML and JavaScript/TypeScript files are resolved; all other files are
copied unchanged.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewCheckCommand())

	return cmd
}
