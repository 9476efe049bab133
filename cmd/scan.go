// =============================================================================
// Disperse Input - Scan Command
// =============================================================================
//
// This file defines the 'scan' command, which validates every input file in
// a directory at once.
//
// COMMAND USAGE:
//   disperse scan [dir] [flags]
//
// FLAGS:
//   --recursive : Also scan subdirectories
//
// PROCESSING PIPELINE:
//   1. Discover .txt, .csv, .tsv, .xlsx and .xlsm files in the directory
//   2. Load and validate each file concurrently
//   3. Print one status line per file and a summary
//
// A file fails when it cannot be read or has invalid lines. Duplicates are
// reported in the status line but do not fail the file.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/disperse-input/internal/session"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
	"github.com/ginjaninja78/disperse-input/pkg/utils"
)

// recursive enables scanning of subdirectories.
var recursive bool

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Validate every input file in a directory",
	Long: `Scan discovers every list file in the directory (default: the current
directory), validates each one concurrently and prints a summary.

Errors in one file do not stop the others from being validated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVarP(
		&recursive,
		"recursive",
		"r",
		false,
		"Also scan subdirectories",
	)
}

// scanResult is the outcome of validating one file.
type scanResult struct {
	Path  string
	State session.State
	Err   error
}

// =============================================================================
// MAIN SCAN FUNCTION
// =============================================================================

func runScan(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	files, err := discoverInputFiles(dir, recursive)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No input files found.")
		return nil
	}

	model := newModel()

	var wg sync.WaitGroup
	results := make(chan scanResult, len(files))

	for _, file := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			state, err := model.OnFileLoaded(session.State{}, path)
			results <- scanResult{Path: path, State: state, Err: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]scanResult, 0, len(files))
	for result := range results {
		collected = append(collected, result)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].Path < collected[j].Path })

	var validCount, invalidCount int
	for _, result := range collected {
		name := relativeName(dir, result.Path)
		switch {
		case result.Err != nil:
			invalidCount++
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Err)
		case !result.State.Result.Valid:
			invalidCount++
			fmt.Fprintf(out, "  ✗ %s: %d invalid line(s)\n", name, len(result.State.Result.LineErrors))
		default:
			validCount++
			fmt.Fprintf(out, "  ✓ %s: %d record(s)%s\n", name, len(result.State.Result.Records), duplicateSuffix(result.State))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total files:     %d\n", len(files))
	fmt.Fprintf(out, "Valid:           %d\n", validCount)
	fmt.Fprintf(out, "Invalid:         %d\n", invalidCount)
	fmt.Fprintf(out, "Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))

	if invalidCount > 0 {
		return fmt.Errorf("%w: %d of %d file(s) failed", errors.ErrInvalidInput, invalidCount, len(files))
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// discoverInputFiles returns the list files in dir.
//
// PARAMETERS:
//   - dir: The directory to scan.
//   - recurse: Whether subdirectories are scanned too.
//
// RETURNS:
//   - The paths of every file with a supported, explicit extension.
//   - An error if the directory cannot be read.
func discoverInputFiles(dir string, recurse bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recurse {
				return filepath.SkipDir
			}
			return nil
		}

		// Extensionless files count as text on upload, but are skipped here.
		if filepath.Ext(path) != "" && utils.DetectInputKind(path) != utils.KindUnknown {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func relativeName(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}

func duplicateSuffix(state session.State) string {
	if !state.HasDuplicates {
		return ""
	}
	addresses := make([]string, len(state.Result.Duplicates))
	for i, notice := range state.Result.Duplicates {
		addresses[i] = notice.Address
	}
	return fmt.Sprintf(", duplicates: %s", strings.Join(addresses, ", "))
}
