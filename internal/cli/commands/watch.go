package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/mipscan/pkg/analyzer"
	"github.com/ccollicutt/mipscan/pkg/metrics"
	"github.com/ccollicutt/mipscan/pkg/output"
	"github.com/ccollicutt/mipscan/pkg/parser"
	"github.com/ccollicutt/mipscan/pkg/store"
)

// WatchOptions holds command-line options for the watch command.
type WatchOptions struct {
	Config     string
	Dialect    string
	Output     string
	Settle     time.Duration
	NoProgress bool
	Verbose    bool
	StorePath  string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Parse solver logs as they are written to a directory",
		Long: `Watch a directory and parse each solver log once it has stopped changing.

A log is parsed after no write has been seen for the settle interval, so a
solver that is still running is not reported early. Summaries are printed
and, with --store or store.path in the config, persisted under one run id
for the whole watch session.

Press Ctrl-C to stop.

Example:
  mipscan watch runs/
  mipscan watch --settle 10s --store runs.db runs/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (YAML or TOML)")
	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", "", "Solver dialect (CPLEX|GUROBI|CBC|CPSAT|auto)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json|csv)")
	cmd.Flags().DurationVar(&opts.Settle, "settle", parser.DefaultSettle, "Quiet period before a log is parsed")
	cmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "Skip the progress table and the analytics derived from it")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show matrix, presolve, cut and progress details")
	cmd.Flags().StringVar(&opts.StorePath, "store", "", "SQLite database to store run summaries in")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *WatchOptions) error {
	dir := args[0]
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
	if opts.StorePath != "" {
		cfg.Store.Path = opts.StorePath
	}

	sessionID := uuid.NewString()
	logger := slog.Default().With("session", sessionID)

	a, err := analyzer.NewAnalyzer(cfg.Dialect,
		analyzer.WithProgress(cfg.GetProgress && !opts.NoProgress),
		analyzer.WithLogger(logger),
		analyzer.WithConfigFile(opts.Config),
	)
	if err != nil {
		return err
	}

	formatter, err := output.New(cfg.Output, output.FormatOptions{Verbose: opts.Verbose})
	if err != nil {
		return err
	}

	var st *store.Store
	if cfg.Store.Enabled() {
		st, err = store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled() {
		recorder = metrics.New()
	}

	w, err := parser.NewWatcher(dir, opts.Settle)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	defer w.Stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (settle %s), press Ctrl-C to stop\n", dir, w.Settle)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Logs:
			if !ok {
				return nil
			}
			res := watchOne(ctx, a, path)
			if res.Err != nil {
				logger.Warn("log skipped", "source", path, "error", res.Err)
			} else if err := formatter.Format(ctx, output.NewSingleReport(path, res.Summary), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("formatting output: %w", err)
			}

			if st != nil {
				if err := st.Save(ctx, sessionID, res); err != nil {
					logger.Warn("storing result failed", "source", path, "error", err)
				}
			}
			if recorder != nil {
				recorder.ObserveRun(res)
				if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
					logger.Warn("writing metrics failed", "error", err)
				}
			}
		}
	}
}

// watchOne parses one settled log into a RunResult.
func watchOne(ctx context.Context, a *analyzer.Analyzer, path string) *analyzer.RunResult {
	start := time.Now()
	res := &analyzer.RunResult{Source: path}
	defer func() { res.Duration = time.Since(start) }()

	in, err := parser.Load(ctx, path, false)
	if err != nil {
		res.Err = err
		return res
	}
	summary, err := a.Parse(ctx, in.Content)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}
	res.Dialect = summary.Solver
	res.Summary = summary
	return res
}
