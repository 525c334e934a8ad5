package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	ulmo "go.ulmo.dev/pkg"
)

// EmitOptions holds flags for the emit command.
type EmitOptions struct {
	*RootOptions
	LLVM bool
}

// EmitReport is the emit command's JSON payload.
type EmitReport struct {
	Target string `json:"target"`
	Code   string `json:"code"`
}

// NewEmitCommand creates the emit command.
func NewEmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "emit <tree-file>",
		Short: "Render a tree as source code or LLVM IR",
		Long: `Render a tree back to source text. With --llvm the tree must be a whole
program and is lowered to LLVM IR instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.LLVM, "llvm", false, "lower to LLVM IR instead of source text")

	return cmd
}

func runEmit(opts *EmitOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	node, err := LoadTree(path)
	if err != nil {
		return err
	}

	formatter.Verbosef("loaded tree with %d node(s)\n", ulmo.CountNodes(node))

	var (
		target string
		code   string
	)

	if opts.LLVM {
		prog, ok := node.(*ulmo.Program)
		if !ok {
			return fmt.Errorf("%s: --llvm needs a program at the tree root", path)
		}

		mod, err := ulmo.NewLLVMGenerator(prog).Do()
		if err != nil {
			return fmt.Errorf("lowering %s: %w", path, err)
		}

		target = "llvm"
		code = mod.String()
	} else {
		target = "source"
		code = ulmo.NewCodeGenerator().Generate(node)
	}

	if formatter.Format == "json" {
		return formatter.JSON(EmitReport{Target: target, Code: code})
	}

	formatter.Printf("%s\n", code)

	return nil
}
