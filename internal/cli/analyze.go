package cli

import (
	"github.com/spf13/cobra"

	ulmo "go.ulmo.dev/pkg"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "analyze <tree-file>",
		Short:         "Collect structural statistics for a tree",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runAnalyze(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	tree, err := LoadTree(path)
	if err != nil {
		return err
	}

	formatter.Verbosef("analyzing %s (%d nodes)\n", path, ulmo.CountNodes(tree))

	stats := ulmo.Analyze(tree)

	if formatter.Format == "json" {
		return formatter.JSON(stats)
	}

	formatter.Printf("functions:  %d\n", stats.Functions)
	formatter.Printf("variables:  %d\n", stats.Variables)
	formatter.Printf("calls:      %d\n", stats.Calls)
	formatter.Printf("max depth:  %d\n", stats.MaxDepth)

	return nil
}
