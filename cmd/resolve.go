// =============================================================================
// Disperse Input - Resolve Command
// =============================================================================
//
// COMMAND USAGE:
//   disperse resolve [file] [flags]
//
// FLAGS:
//   --strategy : keep-first or combine (default from resolution.default_strategy)
//
// The resolved list is written to stdout in canonical "<address>=<amount>"
// form. Resolution is refused while the input has invalid lines.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/disperse-input/internal/report"
	"github.com/ginjaninja78/disperse-input/internal/resolver"
	"github.com/ginjaninja78/disperse-input/internal/session"
	"github.com/ginjaninja78/disperse-input/pkg/logging"
)

// strategyName selects the resolution strategy.
var strategyName string

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Remove duplicate addresses from a list",
	Long: `Resolve removes duplicate addresses using one of two strategies:

  keep-first  keep the first occurrence of each address and its amount
  combine     keep one line per address with the sum of its amounts

Addresses stay in order of first appearance. The result is validated again
before it is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(
		&strategyName,
		"strategy",
		"s",
		"",
		"Resolution strategy: keep-first or combine",
	)
}

func runResolve(cmd *cobra.Command, args []string) error {
	outFormat, err := format()
	if err != nil {
		return err
	}

	name := strategyName
	if name == "" {
		name = appConfig.Resolution.DefaultStrategy
	}
	strategy, err := resolver.ParseStrategy(name)
	if err != nil {
		return err
	}

	model := newModel()
	state, err := loadState(cmd, model, args)
	if err != nil {
		return err
	}

	resolved, err := resolveState(model, state, strategy)
	if err != nil {
		return err
	}

	logging.Default().Debug().
		Int("before", len(state.Result.Records)).
		Int("after", len(resolved.Result.Records)).
		Msg("resolution complete")

	switch outFormat {
	case report.FormatYAML, report.FormatJSON:
		return report.WriteResult(cmd.OutOrStdout(), resolved.Result, outFormat)
	default:
		return report.WriteRecords(cmd.OutOrStdout(), resolved.Result.Records, outFormat)
	}
}

// resolveState dispatches strategy to the matching session event.
func resolveState(model *session.Model, state session.State, strategy resolver.Strategy) (session.State, error) {
	if strategy == resolver.Combine {
		return model.OnCombine(state)
	}
	return model.OnKeepFirst(state)
}
