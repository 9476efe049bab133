// =============================================================================
// Disperse Input - XLSX Parser Module
// =============================================================================
//
// This module reads uploaded spreadsheets. Column A is expected to hold the
// address and column B the amount:
//
//   | Column A                                   | Column B |
//   |--------------------------------------------|----------|
//   | 0x2CB99F193549681e06C6770dDD5543812B4FaFE8 | 1        |
//   | 0x8B3392483BA26D65E331dB86D4F430E9B3814E5e | 50       |
//
// Rows are converted to raw input lines with the same rules as the CSV parser
// so that uploaded spreadsheets and typed text are validated identically.
// Cell values are read raw, so display formatting such as thousands
// separators does not leak into the amounts.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/disperse-input/internal/config"
	"github.com/ginjaninja78/disperse-input/internal/csvparser"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
)

// Parse reads a spreadsheet and returns its rows as raw input lines.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - settings: The input settings; Sheet selects the worksheet (default:
//     the first one) and HeaderRows the number of rows to skip.
func Parse(filePath string, settings config.InputSettings) (*csvparser.Data, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.NewIOError("open", filePath, err)
	}
	defer f.Close()

	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, errors.NewParseError("xlsx", filePath, "file has no sheets", nil)
	}

	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		return nil, errors.NewParseError("xlsx", filePath,
			fmt.Sprintf("sheet %q not found (sheets: %s)", sheetName, strings.Join(f.GetSheetList(), ", ")), nil)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewParseError("xlsx", filePath, "failed to read sheet "+sheetName, err)
	}

	data := &csvparser.Data{SourceFile: filePath}
	for i, row := range rows {
		if i < settings.HeaderRows {
			continue
		}
		if isRowEmpty(row) {
			continue
		}
		data.RowCount++
		data.Lines = append(data.Lines, csvparser.RowToLine(row))
	}

	return data, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
