// =============================================================================
// Disperse Input - Example Command
// =============================================================================
//
// COMMAND USAGE:
//   disperse example [flags]
//
// FLAGS:
//   --numbered : Print the example with line numbers
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/disperse-input/internal/report"
	"github.com/ginjaninja78/disperse-input/internal/session"
)

// exampleNumbered prints the example with a line-number gutter.
var exampleNumbered bool

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example input list",
	Long: `Print an example list showing the three accepted separators. The output
can be piped straight into the other commands:

  disperse example | disperse validate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exampleNumbered {
			return report.WriteNumbered(cmd.OutOrStdout(), session.ExampleText)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), session.ExampleText)
		return err
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)

	exampleCmd.Flags().BoolVar(
		&exampleNumbered,
		"numbered",
		false,
		"Print the example with line numbers",
	)
}
