package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/mipscan/pkg/config"
	"github.com/ccollicutt/mipscan/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a mipscan configuration file without parsing any logs.

Checks:
  - YAML or TOML syntax, unknown keys
  - Dialect is registered (or auto)
  - Workers, output format and glob syntax
  - Webhook URLs and triggers
  - Log source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Dialect:     %s\n", cfg.Dialect)
	fmt.Fprintf(out, "  Progress:    %t\n", cfg.GetProgress)
	fmt.Fprintf(out, "  Workers:     %d\n", cfg.Workers)
	fmt.Fprintf(out, "  Output:      %s\n", cfg.Output)
	fmt.Fprintf(out, "  Log sources: %d pattern(s)\n", len(cfg.LogSources))
	if cfg.Store.Enabled() {
		fmt.Fprintf(out, "  Store:       %s\n", cfg.Store.Path)
	}
	if cfg.Metrics.Enabled() {
		fmt.Fprintf(out, "  Metrics:     %s\n", cfg.Metrics.Textfile)
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(out, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(out, "  %d. %s [%s]\n", i+1, name, wh.Trigger)
		}
	}

	// Check if log sources exist (warnings only)
	files, err := parser.ExpandGlobs(cfg.LogSources)
	if err != nil {
		fmt.Fprintf(out, "\nWarning: Error expanding log source patterns: %v\n", err)
	} else if len(files) == 0 {
		fmt.Fprintf(out, "\nWarning: No files match log source patterns\n")
	} else {
		fmt.Fprintf(out, "\nLog files matched: %d\n", len(files))
		for _, f := range files {
			fmt.Fprintf(out, "  - %s\n", f)
		}
	}

	return nil
}
