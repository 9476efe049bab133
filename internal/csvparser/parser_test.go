package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/disperse-input/internal/config"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addrA = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func TestRowToLine(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want string
	}{
		{"pair", []string{addrA, "1"}, addrA + "=1"},
		{"trimmed", []string{" " + addrA + " ", " 2 "}, addrA + "=2"},
		{"trailing empties", []string{addrA, "3", "", ""}, addrA + "=3"},
		{"single cell kept verbatim", []string{addrA + " 4"}, addrA + " 4"},
		{"three cells", []string{addrA, "1", "x"}, addrA + ",1,x"},
		{"empty", []string{"", " "}, ""},
		{"byte order mark", []string{"\ufeff" + addrA, "1"}, addrA + "=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RowToLine(tt.row))
		})
	}
}

func TestParseReader(t *testing.T) {
	t.Run("comma", func(t *testing.T) {
		input := "address,amount\n" + addrA + ",1\n\n" + addrA + ",2\r\n"
		data, err := ParseReader(strings.NewReader(input), config.InputSettings{Delimiter: ",", HeaderRows: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{addrA + "=1", addrA + "=2"}, data.Lines)
		assert.Equal(t, 2, data.RowCount)
		assert.Equal(t, addrA+"=1\n"+addrA+"=2", data.Text())
	})

	t.Run("semicolon", func(t *testing.T) {
		data, err := ParseReader(strings.NewReader(addrA+";5\n"), config.InputSettings{Delimiter: "semicolon"})
		require.NoError(t, err)
		assert.Equal(t, []string{addrA + "=5"}, data.Lines)
	})

	t.Run("tab", func(t *testing.T) {
		data, err := ParseReader(strings.NewReader(addrA+"\t5\n"), config.InputSettings{Delimiter: "tab"})
		require.NoError(t, err)
		assert.Equal(t, []string{addrA + "=5"}, data.Lines)
	})

	t.Run("byte order mark", func(t *testing.T) {
		data, err := ParseReader(strings.NewReader("\ufeff"+addrA+",1\n"), config.InputSettings{})
		require.NoError(t, err)
		assert.Equal(t, []string{addrA + "=1"}, data.Lines)
	})

	t.Run("variable columns", func(t *testing.T) {
		data, err := ParseReader(strings.NewReader(addrA+",1\n"+addrA+",1,extra\n"), config.InputSettings{})
		require.NoError(t, err)
		assert.Equal(t, []string{addrA + "=1", addrA + ",1,extra"}, data.Lines)
	})
}

func TestParse(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "batch.csv")
		require.NoError(t, os.WriteFile(path, []byte(addrA+",7\n"), 0o644))

		data, err := Parse(path, config.InputSettings{Delimiter: ","})
		require.NoError(t, err)
		assert.Equal(t, path, data.SourceFile)
		assert.Equal(t, []string{addrA + "=7"}, data.Lines)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "nope.csv"), config.InputSettings{})
		var ioErr *errors.IOError
		assert.ErrorAs(t, err, &ioErr)
	})
}
