package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/mipscan/pkg/analyzer"
	"github.com/ccollicutt/mipscan/pkg/config"
	"github.com/ccollicutt/mipscan/pkg/output"
	"github.com/ccollicutt/mipscan/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Config        string
	Dialect       string
	Content       bool
	NoProgress    bool
	Output        string
	Verbose       bool
	Quiet         bool
	FailOnUnknown bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <log-file>",
		Short: "Parse one solver log into a run summary",
		Long: `Parse a single solver log and print its run summary.

The dialect is taken from --dialect, then from the config file, and
defaults to "auto", which detects the solver from the log itself.

With --output csv the progress table of the run is written instead of
the summary.

Exit codes:
  0 - Log parsed
  1 - No recognizable status (only with --fail-on-unknown)
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (YAML or TOML)")
	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", "", "Solver dialect (CPLEX|GUROBI|CBC|CPSAT|auto)")
	cmd.Flags().BoolVar(&opts.Content, "content", false, "Treat the argument as log text instead of a file path")
	cmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "Skip the progress table and the analytics derived from it")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json|csv)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show matrix, presolve, cut and progress details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.FailOnUnknown, "fail-on-unknown", false, "Exit 1 when no status could be recognized")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return err
	}
	if opts.Dialect != "" {
		cfg.Dialect = opts.Dialect
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}

	in, err := parser.Load(ctx, args[0], opts.Content)
	if err != nil {
		return fmt.Errorf("loading log: %w", err)
	}

	a, err := analyzer.NewAnalyzer(cfg.Dialect,
		analyzer.WithProgress(cfg.GetProgress && !opts.NoProgress),
		analyzer.WithLogger(slog.Default()),
		analyzer.WithConfigFile(opts.Config),
	)
	if err != nil {
		return err
	}

	summary, err := a.Parse(ctx, in.Content)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", in.Source, err)
	}

	out := cmd.OutOrStdout()
	if cfg.Output == "csv" {
		if err := output.WriteProgressCSV(out, summary.Progress); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	} else {
		formatter, err := output.New(cfg.Output, output.FormatOptions{Verbose: opts.Verbose, Quiet: opts.Quiet})
		if err != nil {
			return err
		}
		if err := formatter.Format(ctx, output.NewSingleReport(in.Source, summary), out); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	if opts.FailOnUnknown && !summary.Recognized() {
		ExitCode = 1
	}

	return nil
}

// loadConfig reads the config file, or falls back to defaults plus
// environment overrides when no file is given.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnvironment()
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
