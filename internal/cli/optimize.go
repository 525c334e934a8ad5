package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	ulmo "go.ulmo.dev/pkg"
)

// OptimizeOptions holds flags for the optimize command.
type OptimizeOptions struct {
	*RootOptions
	Strategy  string
	MaxUnroll int64
	Scenarios []string
}

var strategies = map[string]ulmo.Strategy{
	"constant-folding":      ulmo.ConstantFolding,
	"simplification":        ulmo.ExpressionSimplification,
	"dead-code-elimination": ulmo.DeadCodeElimination,
	"loop-unrolling":        ulmo.LoopUnrolling,
	"function-inlining":     ulmo.FunctionInlining,
}

// OptimizeReport is the optimize command's JSON payload.
type OptimizeReport struct {
	Strategy     string `json:"strategy"`
	Preservation string `json:"preservation"`
	Changes      int    `json:"changes"`
	Verification string `json:"verification"`
	Code         string `json:"code"`
}

// NewOptimizeCommand creates the optimize command.
func NewOptimizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OptimizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "optimize <tree-file>",
		Short: "Apply one rewrite strategy and render the result",
		Long: `Apply one behavior-preserving rewrite strategy to a tree and print the
rewritten code together with the strategy's preservation level and the
number of applied changes. Each --scenario binding is used to sample the
rewritten tree against the original.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "constant-folding",
		"rewrite strategy ("+strategyNames()+")")
	cmd.Flags().Int64Var(&opts.MaxUnroll, "max-unroll",
		int64(env.Int("ULMO_MAX_UNROLL", 8)),
		"largest loop count that still unrolls")
	cmd.Flags().StringArrayVar(&opts.Scenarios, "scenario", nil,
		"verification binding, e.g. x=5,y=2 (repeatable)")

	return cmd
}

func runOptimize(opts *OptimizeOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	strategy, ok := strategies[opts.Strategy]
	if !ok {
		return fmt.Errorf("unknown strategy %q: must be one of %s", opts.Strategy, strategyNames())
	}

	stmt, err := LoadStmt(path)
	if err != nil {
		return err
	}

	pipeline := ulmo.NewPipeline()
	pipeline.Optimizer().MaxUnroll = opts.MaxUnroll

	for _, raw := range opts.Scenarios {
		bindings, err := parseScenario(raw)
		if err != nil {
			return err
		}

		pipeline.AddScenario(bindings)
	}

	result := pipeline.Run(stmt, strategy)
	code := ulmo.NewCodeGenerator().Generate(result.Rewritten)

	formatter.Verbosef("%s applied %d change(s)\n", result.Strategy, result.Changes)

	if formatter.Format == "json" {
		return formatter.JSON(OptimizeReport{
			Strategy:     result.Strategy.String(),
			Preservation: result.Level.String(),
			Changes:      result.Changes,
			Verification: result.Status.String(),
			Code:         code,
		})
	}

	formatter.Printf("strategy:     %s\n", result.Strategy)
	formatter.Printf("preservation: %s\n", result.Level)
	formatter.Printf("changes:      %d\n", result.Changes)
	formatter.Printf("verification: %s\n", result.Status)
	formatter.Printf("\n%s\n", code)

	return nil
}

// parseScenario decodes a comma-separated list of name=value bindings.
func parseScenario(raw string) (map[string]int64, error) {
	bindings := make(map[string]int64)

	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid scenario binding %q: want name=value", pair)
		}

		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario binding %q: %w", pair, err)
		}

		bindings[name] = n
	}

	return bindings, nil
}

func strategyNames() string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}

	sort.Strings(names)

	return strings.Join(names, "|")
}
