// =============================================================================
// Disperse Input - Submit Command
// =============================================================================
//
// COMMAND USAGE:
//   disperse submit [file] [flags]
//
// FLAGS:
//   --resolve : Resolve duplicates first (keep-first or combine)
//   --save    : Also write the batch to output.dir
//
// Submission is refused while the input has invalid lines or no records.
// Duplicates are submitted as-is unless --resolve is given.
//
// =============================================================================

package cmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/disperse-input/internal/report"
	"github.com/ginjaninja78/disperse-input/internal/resolver"
	"github.com/ginjaninja78/disperse-input/internal/session"
	"github.com/ginjaninja78/disperse-input/internal/types"
	"github.com/ginjaninja78/disperse-input/pkg/logging"
	"github.com/ginjaninja78/disperse-input/pkg/utils"
)

var (
	// resolveFirst names the strategy applied before submission.
	resolveFirst string

	// saveBatch writes the submitted batch to the output directory.
	saveBatch bool
)

var submitCmd = &cobra.Command{
	Use:   "submit [file]",
	Short: "Submit a validated list as a batch",
	Long: `Submit validates the input, builds a batch with an ID and the exact total
of all amounts, and prints it. With --save the batch is also written to the
output directory using output.file_name_format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVar(
		&resolveFirst,
		"resolve",
		"",
		"Resolve duplicates before submitting: keep-first or combine",
	)

	submitCmd.Flags().BoolVar(
		&saveBatch,
		"save",
		false,
		"Write the batch to the output directory",
	)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	outFormat, err := format()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	consumer := session.ConsumerFunc(func(ctx context.Context, batch types.Batch) error {
		if saveBatch {
			path, err := saveBatchFile(&batch)
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Info().Str("file", path).Msg("batch saved")
		}
		return report.WriteBatch(out, &batch, outFormat)
	})

	model := newModel(session.WithConsumer(consumer))
	state, err := loadState(cmd, model, args)
	if err != nil {
		return err
	}

	if resolveFirst != "" {
		strategy, err := resolver.ParseStrategy(resolveFirst)
		if err != nil {
			return err
		}
		if state, err = resolveState(model, state, strategy); err != nil {
			return err
		}
	}

	ctx := logging.WithLogger(cmd.Context(), logging.Default())
	_, _, err = model.OnSubmit(ctx, state)
	return err
}

// saveBatchFile writes batch to the output directory. The file format follows
// the extension of the generated name.
func saveBatchFile(batch *types.Batch) (string, error) {
	name := utils.GenerateOutputFileName(appConfig.Output.FileNameFormat, map[string]string{
		"uuid": batch.ID,
	})

	fileFormat, err := report.ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
	if err != nil || fileFormat == report.FormatTable {
		fileFormat = report.FormatText
	}

	data, err := report.MarshalBatch(batch, fileFormat)
	if err != nil {
		return "", err
	}
	return utils.WriteOutputFile(appConfig.Output.Dir, name, data)
}
