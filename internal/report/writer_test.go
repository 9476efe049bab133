package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/disperse-input/internal/types"
	"github.com/ginjaninja78/disperse-input/internal/validation"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
)

const (
	addrA = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	addrB = "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TABLE": FormatTable, "yml": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestWriteResult(t *testing.T) {
	result := validation.Validate(addrA + "=1\n" + addrA + "=2\nbad")

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteResult(&buf, result, FormatText))
		out := buf.String()
		assert.Contains(t, out, "Validation completed with 2 message(s):")
		assert.Contains(t, out, "1. "+addrA+" duplicate in line: 1, 2")
		assert.Contains(t, out, "2. Line 3: invalid format")
		assert.Contains(t, out, "Status:     invalid")
	})

	t.Run("text without problems", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteResult(&buf, validation.Validate(addrA+"=1"), FormatText))
		assert.True(t, strings.HasPrefix(buf.String(), "No validation errors.\n"))
		assert.Contains(t, buf.String(), "Records:    1")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteResult(&buf, result, FormatTable))
		out := buf.String()
		assert.Contains(t, out, "duplicate")
		assert.Contains(t, out, "invalid format")
		assert.Contains(t, out, "valid=false records=0 duplicates=true format=1 address=0 amount=0")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteResult(&buf, result, FormatJSON))

		var payload ResultPayload
		require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
		assert.False(t, payload.Valid)
		assert.True(t, payload.HasDuplicates)
		assert.Equal(t, result.Messages(), payload.Messages)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteResult(&buf, validation.Validate(addrA+"=1"), FormatYAML))

		var payload ResultPayload
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &payload))
		assert.True(t, payload.Valid)
		assert.Equal(t, []types.Record{{Address: addrA, Amount: 1}}, payload.Records)
	})
}

func TestWriteRecords(t *testing.T) {
	records := []types.Record{{Address: addrA, Amount: 1}, {Address: addrB, Amount: 0.5}}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, records, FormatText))
	assert.Equal(t, addrA+"=1\n"+addrB+"=0.5\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRecords(&buf, records, FormatTable))
	assert.Contains(t, buf.String(), addrB)
	assert.Contains(t, buf.String(), "0.5")
}

func TestWriteBatch(t *testing.T) {
	records := []types.Record{{Address: addrA, Amount: 1.25}, {Address: addrB, Amount: 2}}
	batch := &types.Batch{
		ID:        "batch-1",
		Records:   records,
		Total:     types.SumAmounts(records),
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteBatch(&buf, batch, FormatText))
		assert.Equal(t, "# batch batch-1\n# records 2 total 3.25\n"+addrA+"=1.25\n"+addrB+"=2\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteBatch(&buf, batch, FormatTable))
		assert.Contains(t, buf.String(), "Batch batch-1")
		assert.Contains(t, buf.String(), "3.25")
	})

	t.Run("marshal yaml", func(t *testing.T) {
		data, err := MarshalBatch(batch, FormatYAML)
		require.NoError(t, err)
		assert.Contains(t, string(data), "id: batch-1")
		assert.Contains(t, string(data), "total: \"3.25\"")
	})

	t.Run("marshal json", func(t *testing.T) {
		data, err := MarshalBatch(batch, FormatJSON)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"total": "3.25"`)
	})
}

func TestWriteNumbered(t *testing.T) {
	var buf bytes.Buffer
	lines := strings.Repeat("x\n", 9) + "y"
	require.NoError(t, WriteNumbered(&buf, lines))
	out := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, out, 10)
	assert.Equal(t, " 1 | x", out[0])
	assert.Equal(t, "10 | y", out[9])
}
