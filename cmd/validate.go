// =============================================================================
// Disperse Input - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   disperse validate [file] [flags]
//
// FLAGS:
//   --numbered : Print the input with line numbers before the report
//
// EXIT STATUS:
//   0 when every line is valid (duplicates are reported but allowed),
//   1 otherwise.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/disperse-input/internal/report"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
)

// validateNumbered prints the input with a line-number gutter.
var validateNumbered bool

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an address and amount list",
	Long: `Validate runs one validation pass over the input and reports duplicate
addresses followed by every line with a format, address or amount error.

Duplicates do not make the input invalid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(
		&validateNumbered,
		"numbered",
		false,
		"Print the input with line numbers before the report",
	)
}

func runValidate(cmd *cobra.Command, args []string) error {
	outFormat, err := format()
	if err != nil {
		return err
	}

	state, err := loadState(cmd, newModel(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if validateNumbered && outFormat == report.FormatText {
		if err := report.WriteNumbered(out, state.Text); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if err := report.WriteResult(out, state.Result, outFormat); err != nil {
		return err
	}

	if !state.Result.Valid {
		return fmt.Errorf("%w: %d invalid line(s)", errors.ErrInvalidInput, len(state.Result.LineErrors))
	}
	return nil
}
