package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/disperse-input/internal/config"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
)

const (
	addrA = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	addrB = "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
)

func writeWorkbook(t *testing.T, cells map[string]map[string]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for sheet, values := range cells {
		if sheet != "Sheet1" {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for cell, value := range values {
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	path := filepath.Join(t.TempDir(), "batch.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := writeWorkbook(t, map[string]map[string]any{
		"Sheet1": {
			"A1": "address", "B1": "amount",
			"A2": addrA, "B2": 1.5,
			"A4": addrB, "B4": 50,
		},
		"Other": {
			"A1": addrB, "B1": 2,
		},
	})

	t.Run("first sheet with header", func(t *testing.T) {
		data, err := Parse(path, config.InputSettings{HeaderRows: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{addrA + "=1.5", addrB + "=50"}, data.Lines)
		assert.Equal(t, 2, data.RowCount)
		assert.Equal(t, path, data.SourceFile)
	})

	t.Run("named sheet", func(t *testing.T) {
		data, err := Parse(path, config.InputSettings{Sheet: "Other"})
		require.NoError(t, err)
		assert.Equal(t, []string{addrB + "=2"}, data.Lines)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := Parse(path, config.InputSettings{Sheet: "Missing"})
		var parseErr *errors.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Message, `"Missing"`)
		assert.Contains(t, parseErr.Message, "Sheet1")
	})
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.xlsx"), config.InputSettings{})
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}
