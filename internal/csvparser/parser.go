// =============================================================================
// Disperse Input - CSV Parser Module
// =============================================================================
//
// This module reads uploaded delimited files and turns each row into one line
// of raw input text, so an uploaded file goes through exactly the same
// validation as typed text.
//
// ROW CONVERSION:
//   - A row with two cells becomes "<cell1>=<cell2>"
//   - Any other row is re-joined with commas, which the validator then reports
//     as a format error if it does not hold exactly two tokens
//   - Trailing empty cells are dropped (common in spreadsheet exports)
//   - Rows with no content are skipped
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/disperse-input/internal/config"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
	"github.com/ginjaninja78/disperse-input/pkg/utils"
)

// =============================================================================
// DATA STRUCTURE
// =============================================================================

// Data represents a parsed input file.
type Data struct {
	// Lines holds one raw input line per non-empty data row.
	Lines []string

	// SourceFile is the path to the source file.
	SourceFile string

	// RowCount is the number of data rows read (excluding skipped header rows).
	RowCount int
}

// Text returns the lines joined with newlines, ready for validation.
func (d *Data) Text() string {
	return strings.Join(d.Lines, "\n")
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the file.
//   - settings: The input settings from the configuration.
func Parse(filePath string, settings config.InputSettings) (*Data, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.NewIOError("open", filePath, err)
	}
	defer file.Close()

	data, err := ParseReader(bufio.NewReader(file), settings)
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath

	return data, nil
}

// ParseReader reads delimited rows from r.
func ParseReader(r io.Reader, settings config.InputSettings) (*Data, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	data := &Data{}
	rowIndex := 0
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErr := errors.NewParseError("csv", "", "failed to read row", err)
			if csvErr, ok := err.(*csv.ParseError); ok {
				parseErr.Line = csvErr.Line
			}
			return nil, parseErr
		}

		rowIndex++
		if rowIndex <= settings.HeaderRows {
			continue
		}
		data.RowCount++

		if line := RowToLine(row); line != "" {
			data.Lines = append(data.Lines, line)
		}
	}

	return data, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.InputSettings) {
	// Handle special cases for common delimiters.
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Allow variable number of fields per row.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true
}

// RowToLine converts the cells of one row into a raw input line.
func RowToLine(row []string) string {
	cells := make([]string, 0, len(row))
	for _, cell := range row {
		cells = append(cells, utils.TrimInput(cell))
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}

	switch len(cells) {
	case 0:
		return ""
	case 2:
		return fmt.Sprintf("%s=%s", cells[0], cells[1])
	default:
		return strings.Join(cells, ",")
	}
}
