// =============================================================================
// Disperse Input - Report Writer
// =============================================================================
//
// This module renders validation results, resolutions and submitted batches.
//
// SUPPORTED FORMATS:
//   - text  : human-readable lines (canonical "<address>=<amount>" for records)
//   - table : aligned tables rendered with tablewriter
//   - yaml  : structured YAML
//   - json  : structured JSON
//
// =============================================================================

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/disperse-input/internal/types"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
)

// Format is an output format.
type Format string

const (
	// FormatText is human-readable output; records use the canonical line form.
	FormatText Format = "text"
	// FormatTable renders aligned tables.
	FormatTable Format = "table"
	// FormatYAML renders structured YAML.
	FormatYAML Format = "yaml"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
)

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatTable, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: output format %q", errors.ErrUnsupportedFormat, s)
	}
}

// =============================================================================
// PAYLOADS
// =============================================================================

// ResultPayload is the structured form of a validation result.
type ResultPayload struct {
	Valid         bool           `json:"valid" yaml:"valid"`
	HasDuplicates bool           `json:"has_duplicates" yaml:"has_duplicates"`
	LineCount     int            `json:"line_count" yaml:"line_count"`
	Records       []types.Record `json:"records" yaml:"records"`
	Messages      []string       `json:"messages" yaml:"messages"`
}

// NewResultPayload builds the structured form of result.
func NewResultPayload(result *types.ValidationResult) ResultPayload {
	return ResultPayload{
		Valid:         result.Valid,
		HasDuplicates: result.HasDuplicates,
		LineCount:     result.LineCount,
		Records:       result.Records,
		Messages:      result.Messages(),
	}
}

// =============================================================================
// VALIDATION RESULTS
// =============================================================================

// WriteResult renders a validation result.
func WriteResult(w io.Writer, result *types.ValidationResult, format Format) error {
	switch format {
	case FormatYAML, FormatJSON:
		return writeStructured(w, NewResultPayload(result), format)
	case FormatTable:
		return writeResultTable(w, result)
	default:
		_, err := io.WriteString(w, FormatMessages(result))
		return err
	}
}

// FormatMessages formats the messages of a result for display.
func FormatMessages(result *types.ValidationResult) string {
	var b strings.Builder

	messages := result.Messages()
	if len(messages) == 0 {
		b.WriteString("No validation errors.\n")
	} else {
		fmt.Fprintf(&b, "Validation completed with %d message(s):\n\n", len(messages))
		for i, msg := range messages {
			fmt.Fprintf(&b, "%d. %s\n", i+1, msg)
		}
		b.WriteString("\n")
	}

	status := "valid"
	if !result.Valid {
		status = "invalid"
	}
	fmt.Fprintf(&b, "Status:     %s\n", status)
	fmt.Fprintf(&b, "Records:    %d\n", len(result.Records))
	fmt.Fprintf(&b, "Duplicates: %t\n", result.HasDuplicates)

	return b.String()
}

func writeResultTable(w io.Writer, result *types.ValidationResult) error {
	table := tablewriter.NewTable(w)
	table.Header("Kind", "Line(s)", "Message")

	for _, notice := range result.Duplicates {
		if err := table.Append(types.KindDuplicate.String(), joinInts(notice.Lines), notice.String()); err != nil {
			return err
		}
	}
	for _, lineErr := range result.LineErrors {
		kinds := make([]string, len(lineErr.Kinds))
		for i, k := range lineErr.Kinds {
			kinds[i] = k.String()
		}
		if err := table.Append(strings.Join(kinds, "+"), strconv.Itoa(lineErr.Line), strings.Join(lineErr.Messages, " and ")); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "valid=%t records=%d duplicates=%t format=%d address=%d amount=%d\n",
		result.Valid, len(result.Records), result.HasDuplicates,
		result.CountKind(types.KindFormat), result.CountKind(types.KindAddress), result.CountKind(types.KindAmount))
	return err
}

// =============================================================================
// RECORDS AND BATCHES
// =============================================================================

// WriteRecords renders a record list. In text format this is the canonical
// "<address>=<amount>" form.
func WriteRecords(w io.Writer, records []types.Record, format Format) error {
	switch format {
	case FormatYAML, FormatJSON:
		return writeStructured(w, records, format)
	case FormatTable:
		return writeRecordTable(w, records, "")
	default:
		for _, r := range records {
			if _, err := fmt.Fprintln(w, r.String()); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteBatch renders a submitted batch.
func WriteBatch(w io.Writer, batch *types.Batch, format Format) error {
	switch format {
	case FormatYAML, FormatJSON:
		return writeStructured(w, batch, format)
	case FormatTable:
		if _, err := fmt.Fprintf(w, "Batch %s\n", batch.ID); err != nil {
			return err
		}
		return writeRecordTable(w, batch.Records, batch.Total.String())
	default:
		fmt.Fprintf(w, "# batch %s\n", batch.ID)
		fmt.Fprintf(w, "# records %d total %s\n", len(batch.Records), batch.Total.String())
		return WriteRecords(w, batch.Records, FormatText)
	}
}

// MarshalBatch encodes a batch for saving to a file.
func MarshalBatch(batch *types.Batch, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(batch, "", "  ")
	case FormatYAML:
		return yaml.Marshal(batch)
	default:
		var b strings.Builder
		if err := WriteBatch(&b, batch, FormatText); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	}
}

func writeRecordTable(w io.Writer, records []types.Record, total string) error {
	table := tablewriter.NewTable(w)
	table.Header("#", "Address", "Amount")

	for i, r := range records {
		if err := table.Append(strconv.Itoa(i+1), r.Address, types.FormatAmount(r.Amount)); err != nil {
			return err
		}
	}
	if total != "" {
		table.Footer("", "Total", total)
	}

	return table.Render()
}

// =============================================================================
// INPUT DISPLAY
// =============================================================================

// WriteNumbered renders text with a line-number gutter, matching the line
// numbers used in validation messages.
func WriteNumbered(w io.Writer, text string) error {
	lines := strings.Split(text, "\n")
	width := len(strconv.Itoa(len(lines)))
	for i, line := range lines {
		if _, err := fmt.Fprintf(w, "%*d | %s\n", width, i+1, line); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func writeStructured(w io.Writer, v any, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
