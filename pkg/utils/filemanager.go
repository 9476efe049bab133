// =============================================================================
// Disperse Input - File Manager Utility
// =============================================================================
//
// This module provides file utilities shared by the loader and the CLI:
//   - Input kind detection by extension
//   - Text file reading with newline normalisation
//   - Output file naming and writing
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// =============================================================================
// INPUT DETECTION
// =============================================================================

// InputKind identifies how an uploaded file should be read.
type InputKind string

const (
	// KindText is a plain text file holding one "<address> <amount>" per line.
	KindText InputKind = "text"
	// KindCSV is a delimited file.
	KindCSV InputKind = "csv"
	// KindXLSX is an Excel workbook.
	KindXLSX InputKind = "xlsx"
	// KindUnknown is any other extension.
	KindUnknown InputKind = ""
)

// DetectInputKind returns the input kind for path based on its extension.
func DetectInputKind(path string) InputKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".list", "":
		return KindText
	case ".csv", ".tsv":
		return KindCSV
	case ".xlsx", ".xlsm":
		return KindXLSX
	default:
		return KindUnknown
	}
}

// =============================================================================
// READING
// =============================================================================

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// byteOrderMark is the UTF-8 encoded U+FEFF written by some editors and
// spreadsheet exports at the start of a file.
const byteOrderMark = "\ufeff"

// ReadTextFile reads path and returns its content with a leading byte order
// mark removed and newlines normalised.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return NormalizeNewlines(strings.TrimPrefix(string(data), byteOrderMark)), nil
}

// IsInputSpace reports whether r is white space or a line terminator in
// typed input. This is the Unicode space separator category plus tab,
// vertical tab, form feed, no-break space, U+FEFF and the line terminators.
// U+0085 is not included.
func IsInputSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// TrimInput removes leading and trailing input space from s.
func TrimInput(s string) string {
	return strings.TrimFunc(s, IsInputSpace)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a file name based on the format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID (override with params["uuid"])
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//   - params: A map of extra placeholder values.
//
// EXAMPLE:
//   format: "batch_{timestamp}_{uuid}.yaml"
//   output: "batch_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.yaml"
//
// A ".yaml" extension is added when the format has none.
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if filepath.Ext(result) == "" {
		result += ".yaml"
	}

	return result
}

// WriteOutputFile writes data to dir/name, creating dir if needed, and
// returns the full path.
func WriteOutputFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
