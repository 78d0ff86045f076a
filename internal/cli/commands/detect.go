package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/mipscan/pkg/config"
	"github.com/ccollicutt/mipscan/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect which solver wrote a log file",
		Long: `Analyze a log file to identify the solver dialect that produced it.

Samples lines from the file and scores them against signature lines of
each supported solver (banners, status lines, progress lines). Reports the
best match with a confidence score and a ready-to-use config snippet.

Optionally generates a starter config file with --write-config.

Example:
  mipscan detect runs/model.log
  mipscan detect --sample 500 runs/large.log
  mipscan detect --write-config mipscan.yaml runs/model.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of non-blank lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected dialects, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Check file exists
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, logFile, opts.WriteConfig); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote starter config to: %s\n\n", opts.WriteConfig)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, logFile, opts)
	default:
		return outputDetectText(out, result, logFile, opts)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Solver Dialect Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No solver dialect detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: The log may be truncated or come from an unsupported solver.")
		fmt.Fprintln(w, "Pass --dialect explicitly when parsing if you know the solver.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected dialect: %s\n", best.Dialect)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d lines matched)\n", best.Confidence*100, best.MatchCount)
	fmt.Fprintf(w, "Signatures: %s\n", strings.Join(best.Signatures, ", "))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintln(w)

	if len(result.Matches) > 1 && result.Matches[1].Confidence == best.Confidence {
		fmt.Fprintf(w, "WARNING: %s matched with the same confidence.\n", result.Matches[1].Dialect)
		fmt.Fprintln(w, "Pass --dialect explicitly when parsing this log.")
		fmt.Fprintln(w)
	}

	// YAML snippet
	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "dialect: %s\n", best.Dialect)
	fmt.Fprintln(w)

	// Show alternatives if requested
	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative dialects detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Dialect, m.Confidence*100)
			fmt.Fprintf(w, "   signatures: %s\n", strings.Join(m.Signatures, ", "))
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a dialect match in JSON output.
type JSONMatch struct {
	Dialect    string   `json:"dialect"`
	Confidence float64  `json:"confidence"`
	MatchCount int      `json:"match_count"`
	Signatures []string `json:"signatures"`
	SampleLine string   `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string      `json:"file"`
	Matches      []JSONMatch `json:"matches"`
	SampledLines int         `json:"sampled_lines"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	output := JSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
		Matches:      make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		output.Matches = append(output.Matches, JSONMatch{
			Dialect:    m.Dialect,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			Signatures: m.Signatures,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// writeStarterConfig generates a starter config file with the detected dialect.
func writeStarterConfig(result *detector.DetectionResult, logFile, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	// Need a detected dialect to generate config
	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no solver dialect detected")
	}

	content, err := generateStarterConfig(logFile, result.BestMatch())
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateStarterConfig renders a YAML config for the log's directory.
func generateStarterConfig(logFile string, match *detector.DialectMatch) ([]byte, error) {
	// Get absolute path for log file if possible
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	cfg := config.DefaultConfig()
	cfg.Dialect = match.Dialect
	cfg.LogSources = []string{absLogFile}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	header := fmt.Sprintf(`# mipscan configuration
# Generated by: mipscan detect
# Detected dialect: %s (%.0f%% confidence)
#
# Add more logs or use globs under log_sources, e.g. %s
# Optional sections:
#   store: { path: runs.db }
#   metrics: { textfile: mipscan.prom }
#   webhooks: [{ name: ci, url: "https://example.com/hook", trigger: on_unknown }]

`, match.Dialect, match.Confidence*100, filepath.Join(filepath.Dir(absLogFile), "*.log"))

	return append([]byte(header), body...), nil
}
