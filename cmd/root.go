// =============================================================================
// Disperse Input - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (disperse)
//   ├── validateCmd (disperse validate)
//   ├── resolveCmd  (disperse resolve)
//   ├── submitCmd   (disperse submit)
//   ├── scanCmd     (disperse scan)
//   ├── exampleCmd  (disperse example)
//   └── versionCmd  (disperse version)
//
// CONFIGURATION:
//   Before any command runs the root command:
//   1. Loads .env and .env.local into the environment
//   2. Loads the configuration (file, DISPERSE_* variables, flags)
//   3. Sets up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/disperse-input/internal/config"
	"github.com/ginjaninja78/disperse-input/internal/report"
	"github.com/ginjaninja78/disperse-input/internal/session"
	"github.com/ginjaninja78/disperse-input/internal/validation"
	"github.com/ginjaninja78/disperse-input/pkg/logging"
	"github.com/ginjaninja78/disperse-input/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// Empty means ./disperse.yaml when it exists.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// outputFormat overrides output.format from the configuration.
var outputFormat string

// appConfig is the configuration loaded before the command runs.
var appConfig = config.Default()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "disperse",
	Short: "Disperse Input - Validate and prepare batch transfer lists",
	Long: `Disperse Input validates lists of recipient addresses and amounts for a
batch transfer, reports duplicate addresses, and resolves them before the
list is submitted.

Each line holds an address and an amount separated by spaces, commas or
equals signs:

  0x2CB99F193549681e06C6770dDD5543812B4FaFE8=1
  0x8B3392483BA26D65E331dB86D4F430E9B3814E5e 50
  0x09ae5A64465c18718a46b3aD946270BD3E5e6aaB,13

Input is read from a file (.txt, .csv, .xlsx) or from stdin.

Example Usage:
  disperse validate list.txt               # Validate a list
  disperse resolve --strategy combine < l  # Merge duplicate addresses
  disperse submit list.csv --save          # Submit and save the batch`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Assigned here rather than in the literal: initConfig refers to rootCmd,
	// which would otherwise form an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig()
	}

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is ./disperse.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVarP(
		&outputFormat,
		"output",
		"o",
		"",
		"Output format: text, table, yaml, json",
	)
}

// initConfig loads .env files, the configuration and the logger.
func initConfig() error {
	loadEnvFiles()

	v := viper.New()
	if err := v.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output")); err != nil {
		return err
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	logCfg := &logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  os.Stderr,
		NoColor: os.Getenv("NO_COLOR") != "",
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logging.Configure(logCfg)

	if used := v.ConfigFileUsed(); used != "" && utils.FileExists(used) {
		logging.Default().Debug().Str("file", used).Msg("configuration loaded")
	}

	appConfig = cfg
	return nil
}

// loadEnvFiles loads .env and then .env.local. Variables already set in the
// environment are not overwritten.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// newModel builds a session model from the loaded configuration.
func newModel(opts ...session.Option) *session.Model {
	validator := validation.NewValidatorWithOptions(validation.ValidationOptions{
		AddressLength: appConfig.Validation.AddressLength,
		AddressPrefix: appConfig.Validation.AddressPrefix,
		AllowEmpty:    appConfig.Validation.AllowEmpty,
	})

	base := []session.Option{
		session.WithLogger(*logging.Default()),
		session.WithInputSettings(appConfig.Input),
	}
	return session.New(validator, append(base, opts...)...)
}

// loadState builds the session state from the file named in args, or from
// stdin when no file is given.
func loadState(cmd *cobra.Command, model *session.Model, args []string) (session.State, error) {
	if len(args) > 0 && args[0] != "-" {
		return model.OnFileLoaded(session.State{}, args[0])
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return session.State{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	return model.OnTextChanged(session.State{}, utils.NormalizeNewlines(string(data))), nil
}

// format returns the output format chosen by flag or configuration.
func format() (report.Format, error) {
	return report.ParseFormat(appConfig.Output.Format)
}
