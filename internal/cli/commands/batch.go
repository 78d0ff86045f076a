package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/mipscan/pkg/analyzer"
	"github.com/ccollicutt/mipscan/pkg/config"
	"github.com/ccollicutt/mipscan/pkg/metrics"
	"github.com/ccollicutt/mipscan/pkg/output"
	"github.com/ccollicutt/mipscan/pkg/parser"
	"github.com/ccollicutt/mipscan/pkg/store"
	"github.com/ccollicutt/mipscan/pkg/webhook"
)

// BatchOptions holds command-line options for the batch command.
type BatchOptions struct {
	Dialect       string
	Output        string
	Workers       int
	NoProgress    bool
	Verbose       bool
	Quiet         bool
	FailOnUnknown bool

	StorePath   string
	MetricsFile string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	opts := &BatchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <config-file> [log-glob...]",
		Short: "Parse many solver logs concurrently",
		Long: `Parse every log matched by the configuration's log_sources (or by the
globs given after the config file) and print a combined report.

Each batch gets a unique id. Results can be stored in a SQLite database,
exported as Prometheus metrics, and posted to webhooks.

Exit codes:
  0 - All logs parsed
  1 - Some log failed or had no recognizable status (only with --fail-on-unknown)
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", "", "Solver dialect (CPLEX|GUROBI|CBC|CPSAT|auto)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json|csv)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "Logs parsed at once (default from config)")
	cmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "Skip the progress table and the analytics derived from it")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show matrix, presolve, cut and progress details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.FailOnUnknown, "fail-on-unknown", false, "Exit 1 when a log failed or had no recognizable status")
	cmd.Flags().StringVar(&opts.StorePath, "store", "", "SQLite database to store run summaries in")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics", "", "Write Prometheus metrics to this textfile")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_unknown", "When to fire webhook (on_unknown|always|never)")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string, opts *BatchOptions) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyBatchOverrides(cfg, args[1:], opts); err != nil {
		return err
	}

	// Expand log source globs
	files, err := parser.ExpandGlobs(cfg.LogSources)
	if err != nil {
		return fmt.Errorf("expanding log sources: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no log files matched patterns: %v", cfg.LogSources)
	}

	batchID := uuid.NewString()
	logger := slog.Default().With("batch", batchID)

	analyzerOpts := []analyzer.AnalyzerOption{
		analyzer.WithWorkers(cfg.Workers),
		analyzer.WithProgress(cfg.GetProgress),
		analyzer.WithLogger(logger),
		analyzer.WithConfigFile(configPath),
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled() {
		recorder = metrics.New()
		analyzerOpts = append(analyzerOpts, analyzer.WithObserver(recorder))
	}

	// Create analyzer
	a, err := analyzer.NewAnalyzer(cfg.Dialect, analyzerOpts...)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	source := parser.NewFileSource(files)
	defer source.Close()

	logger.Info("batch started", "logs", len(files), "workers", cfg.Workers, "dialect", a.Dialect())

	// Run analysis
	result, err := a.Analyze(ctx, source)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	// Create report
	report := output.NewReport(result, batchID)

	formatter, err := createFormatter(cfg.Output, opts)
	if err != nil {
		return err
	}

	// Output report
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if cfg.Store.Enabled() {
		if err := storeResults(ctx, cfg.Store.Path, batchID, result); err != nil {
			return err
		}
		logger.Info("results stored", "path", cfg.Store.Path)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logger.Info("metrics written", "path", cfg.Metrics.Textfile)
	}

	// Send webhooks (errors logged but don't fail the batch)
	sendWebhooks(ctx, cfg, opts, report, cmd.ErrOrStderr())

	// Set exit code based on results
	if opts.FailOnUnknown && report.HasUnknown() {
		ExitCode = 1
	}

	return nil
}

// applyBatchOverrides applies command-line flags on top of the loaded
// configuration and validates the result.
func applyBatchOverrides(cfg *config.Config, globs []string, opts *BatchOptions) error {
	if len(globs) > 0 {
		cfg.LogSources = globs
	}
	if opts.Dialect != "" {
		cfg.Dialect = opts.Dialect
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.Workers != 0 {
		cfg.Workers = opts.Workers
	}
	if opts.NoProgress {
		cfg.GetProgress = false
	}
	if opts.StorePath != "" {
		cfg.Store.Path = opts.StorePath
	}
	if opts.MetricsFile != "" {
		cfg.Metrics.Textfile = opts.MetricsFile
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func createFormatter(name string, opts *BatchOptions) (output.Formatter, error) {
	return output.New(name, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
}

func storeResults(ctx context.Context, path, batchID string, result *analyzer.AnalysisResult) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if err := st.SaveBatch(ctx, batchID, result.Results); err != nil {
		return fmt.Errorf("storing results: %w", err)
	}
	return nil
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are reported to w but don't fail the batch.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *BatchOptions, report *output.Report, w io.Writer) {
	// Collect webhooks from config and CLI
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	for _, res := range webhook.NewClient().SendAll(ctx, report, webhooks) {
		if res.Skipped {
			continue
		}
		if res.Response.Success() {
			fmt.Fprintf(w, "Webhook %s: sent (%d, %s)\n", res.Name, res.Response.StatusCode, res.Response.Duration)
		} else {
			fmt.Fprintf(w, "Webhook %s: failed (%v)\n", res.Name, res.Response.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *BatchOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	// Add config file webhooks
	webhooks = append(webhooks, cfg.Webhooks...)

	// Add CLI webhook if specified
	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnUnknown
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
