package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/vtoggle/internal/builder"
	"github.com/harrison/vtoggle/internal/display"
	"github.com/harrison/vtoggle/internal/fileutil"
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which tagged regions a run would keep, without writing",
		Long: `Scan the input tree and report, per file and feature, the versions
found and the version that would survive. Nothing is written.

Exits non-zero when any file has a region without a matching end tag.

Examples:
  vtoggle check -c checkout:2.0.0
  vtoggle check -i web/ -c checkout:2.1.0 --exact=false`,
		Args: noArgs,
		RunE: checkCommand,
	}

	addBuildFlags(cmd)

	return cmd
}

func checkCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.DryRun = true

	opts := buildOptions(cfg)
	result, runErr := builder.New(fileutil.NewOSFileSystem(), nil, nil).Run(commandContext(cmd), opts)
	if result == nil {
		return fmt.Errorf("check failed: %w", runErr)
	}

	display.NewCheckReport(cmd.OutOrStdout()).Print(result)
	if unmatched := result.UnmatchedFeatures(opts.Conditions); len(unmatched) > 0 && result.TotalFiles > 0 {
		display.WarnUnmatchedFeatures(unmatched).Display(cmd.ErrOrStderr())
	}

	if runErr != nil {
		return fmt.Errorf("%d file(s) failed: %w", result.Failed, runErr)
	}
	return nil
}
