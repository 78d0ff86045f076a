package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/mipscan/pkg/dialect"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported solver dialects",
		Long: `List the solver dialects that can be passed to --dialect or set in the
config file. "auto" detects the dialect from each log.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, name := range dialect.Names() {
				fmt.Fprintln(out, name)
			}
		},
	}
}
