package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/mipscan/pkg/config"
	"github.com/ccollicutt/mipscan/pkg/detector"
	"github.com/ccollicutt/mipscan/pkg/parser"
	"github.com/ccollicutt/mipscan/pkg/store"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <config-file>",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks your configuration file for common problems:
- Config file syntax and structure
- Log source file existence and accessibility
- Solver dialect of the actual logs against the configured dialect
- Store database accessibility
- Webhook configuration

Example:
  mipscan diagnose mipscan.yaml
  mipscan diagnose -v mipscan.yaml  # verbose output, tests webhook connectivity`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, configPath string, opts *DiagnoseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := []DiagnosticResult{}

	// 1. Check config file existence
	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 2. Parse config file
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 3. Check log sources
	results = append(results, checkLogSources(cfg)...)

	// 4. Check the dialect of actual logs
	results = append(results, checkDialect(ctx, cfg, opts)...)

	// 5. Check the store database
	results = append(results, checkStore(ctx, cfg)...)

	// 6. Check webhooks configuration
	results = append(results, checkWebhooks(cfg, opts)...)

	printDiagnostics(results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'mipscan detect <log-file> --write-config mipscan.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	if info.Size() == 0 {
		result.Status = "warning"
		result.Message = "Config file is empty, defaults apply"
	}
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		switch {
		case strings.Contains(err.Error(), "yaml"):
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		case strings.Contains(err.Error(), "dialect"):
			result.Suggests = []string{
				"Run 'mipscan dialects' to list supported dialects, or use auto",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Dialect: %s", cfg.Dialect),
		fmt.Sprintf("Log sources: %d", len(cfg.LogSources)),
		fmt.Sprintf("Workers: %d", cfg.Workers),
	}
	return cfg, result
}

func checkLogSources(cfg *config.Config) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.LogSources) == 0 {
		results = append(results, DiagnosticResult{
			Check:   "Log Sources",
			Status:  "error",
			Message: "No log sources defined",
			Suggests: []string{
				"Add log_sources section to your config",
				"Example: log_sources:\n  - runs/*.log",
			},
		})
		return results
	}

	totalFiles := 0
	for _, source := range cfg.LogSources {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Log Source: %s", source),
		}

		// Check if it's a glob pattern
		if strings.Contains(source, "*") || strings.Contains(source, "?") {
			matches, err := filepath.Glob(source)
			if err != nil {
				result.Status = "error"
				result.Message = fmt.Sprintf("Invalid glob pattern: %v", err)
			} else if len(matches) == 0 {
				result.Status = "warning"
				result.Message = "Glob pattern matches no files"
				result.Suggests = []string{
					"Check if the log files exist at this path",
					"Verify the glob pattern syntax",
				}
			} else {
				result.Status = "ok"
				result.Message = fmt.Sprintf("Matches %d file(s)", len(matches))
				result.Details = append(result.Details, matches...)
				totalFiles += len(matches)
			}
		} else {
			// Direct file path
			info, err := os.Stat(source)
			if os.IsNotExist(err) {
				result.Status = "error"
				result.Message = "File does not exist"
				result.Suggests = []string{
					"Check if the log file path is correct",
				}
			} else if err != nil {
				result.Status = "error"
				result.Message = fmt.Sprintf("Cannot access file: %v", err)
				result.Suggests = []string{"Check file permissions"}
			} else if info.IsDir() {
				files, _ := parser.ExpandGlobs([]string{source})
				if len(files) == 0 {
					result.Status = "warning"
					result.Message = "Directory contains no log files"
					result.Suggests = []string{
						fmt.Sprintf("Logs are picked up by extension: %s", strings.Join(parser.DefaultExtensions, ", ")),
					}
				} else {
					result.Status = "ok"
					result.Message = fmt.Sprintf("Directory with %d log file(s)", len(files))
					totalFiles += len(files)
				}
			} else if info.Size() == 0 {
				result.Status = "warning"
				result.Message = "File is empty (0 bytes)"
			} else {
				result.Status = "ok"
				result.Message = fmt.Sprintf("File exists (%d bytes)", info.Size())
				totalFiles++
			}
		}
		results = append(results, result)
	}

	if totalFiles == 0 {
		results = append(results, DiagnosticResult{
			Check:   "Log Files Summary",
			Status:  "error",
			Message: "No accessible log files found",
			Suggests: []string{
				"Ensure at least one log file exists and is readable",
			},
		})
	}

	return results
}

func checkDialect(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	files, err := parser.ExpandGlobs(cfg.LogSources)
	if err != nil {
		return results
	}

	d := detector.New()
	for _, logFile := range files {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Dialect: %s", filepath.Base(logFile)),
		}

		detected, err := d.DetectFromFile(ctx, logFile)
		if err != nil {
			// Reported by the log source checks
			continue
		}

		best := detected.BestMatch()
		switch {
		case best == nil:
			result.Status = "warning"
			result.Message = "No solver signature found in log"
			result.Suggests = []string{
				"The log may be truncated or come from an unsupported solver",
			}
			if strings.EqualFold(cfg.Dialect, config.DefaultDialect) {
				result.Status = "error"
				result.Suggests = append(result.Suggests,
					"Auto-detection will skip this log; set dialect explicitly")
			}
		case !strings.EqualFold(cfg.Dialect, config.DefaultDialect) && !strings.EqualFold(cfg.Dialect, best.Dialect):
			result.Status = "error"
			result.Message = fmt.Sprintf("Configured dialect %s, but log looks like %s (%.0f%% confidence)",
				cfg.Dialect, best.Dialect, best.Confidence*100)
			result.Suggests = []string{
				fmt.Sprintf("Set dialect: %s, or use auto", best.Dialect),
			}
			result.Details = []string{"Sample match:", truncate(best.SampleLine, 80)}
		default:
			result.Status = "ok"
			result.Message = fmt.Sprintf("%s (%.0f%% confidence)", best.Dialect, best.Confidence*100)
			if opts.Verbose {
				result.Details = []string{
					fmt.Sprintf("Signatures: %s", strings.Join(best.Signatures, ", ")),
					fmt.Sprintf("Sample match: %s", truncate(best.SampleLine, 80)),
				}
			}
		}

		results = append(results, result)
	}

	return results
}

func checkStore(ctx context.Context, cfg *config.Config) []DiagnosticResult {
	if !cfg.Store.Enabled() {
		return nil
	}

	result := DiagnosticResult{
		Check: fmt.Sprintf("Store: %s", cfg.Store.Path),
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot open database: %v", err)
		result.Suggests = []string{"Check the directory exists and is writable"}
		return []DiagnosticResult{result}
	}
	defer st.Close()

	n, err := st.Count(ctx)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read database: %v", err)
		result.Suggests = []string{"The file may not be a mipscan database"}
		return []DiagnosticResult{result}
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d stored run(s)", n)
	return []DiagnosticResult{result}
}

func printDiagnostics(results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Println("=== mipscan Configuration Diagnostics ===")
	fmt.Println()

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Printf("[%s] %s\n", icon, r.Check)
		fmt.Printf("    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Printf("      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Printf("      Hint: %s\n", s)
		}

		fmt.Println()
	}

	// Summary
	fmt.Println("---")
	fmt.Printf("Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Println("\nFix the errors above before running a batch.")
	} else if warnCount > 0 {
		fmt.Println("\nConfiguration is usable but has warnings.")
	} else {
		fmt.Println("\nConfiguration looks good!")
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		// Webhooks are optional, just note they're not configured
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", name),
		}

		// URL and trigger syntax were checked when the config loaded.
		warnings := []string{}
		if wh.Trigger == config.WebhookTriggerNever {
			warnings = append(warnings, "Trigger is never, this webhook is disabled")
		}
		if wh.Token != "" && strings.HasPrefix(wh.URL, "http://") {
			warnings = append(warnings, "Bearer token would be sent over plain http")
		}

		if len(warnings) > 0 {
			result.Status = "warning"
			result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
			result.Details = warnings
		} else {
			result.Status = "ok"
			result.Message = fmt.Sprintf("Trigger: %s", wh.Trigger)
			if opts.Verbose {
				result.Details = []string{
					fmt.Sprintf("URL: %s", wh.URL),
					fmt.Sprintf("Timeout: %s", wh.Timeout),
				}
				if wh.Token != "" {
					result.Details = append(result.Details, "Token: configured")
				}
			}
		}

		results = append(results, result)
	}

	// Optionally test webhook connectivity
	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			if wh.URL == "" {
				continue
			}

			name := wh.Name
			if name == "" {
				name = wh.URL
			}

			result := checkWebhookConnectivity(wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, result)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// Just do a HEAD request to check if the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	// Any response (even 4xx/5xx) means the server is reachable
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST method (will work during actual webhook send)",
			"Check authentication if using a token",
		}
	}

	return result
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

