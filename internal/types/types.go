// =============================================================================
// Disperse Input - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - validation
//   - resolver
//   - session
//   - report
//
// =============================================================================

package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// Record is a validated (address, amount) pair.
// Records are not required to be unique; uniqueness is only enforced when a
// duplicate resolution strategy is applied.
type Record struct {
	// Address is the recipient address exactly as typed (case preserved).
	Address string `json:"address" yaml:"address"`

	// Amount is the positive, finite amount to send.
	Amount float64 `json:"amount" yaml:"amount"`
}

// String returns the canonical line form "<address>=<amount>".
func (r Record) String() string {
	return r.Address + "=" + FormatAmount(r.Amount)
}

// FormatAmount renders an amount as the shortest decimal that round-trips.
// Exponent notation is only used for very small (< 1e-6) or very large
// (>= 1e21) magnitudes, with the exponent written without zero padding.
// Non-finite values render as "Infinity", "-Infinity" and "NaN", which the
// validator reports as a wrong amount.
func FormatAmount(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "NaN"
	case math.IsInf(amount, 1):
		return "Infinity"
	case math.IsInf(amount, -1):
		return "-Infinity"
	}

	abs := amount
	if abs < 0 {
		abs = -abs
	}
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(amount, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind classifies a problem found on an input line.
type ErrorKind int

const (
	// KindFormat means the line did not split into exactly two tokens.
	KindFormat ErrorKind = iota
	// KindAddress means the address token failed the shape check.
	KindAddress
	// KindAmount means the amount token is not a finite positive number.
	KindAmount
	// KindDuplicate is informational and never blocks submission.
	KindDuplicate
)

// Message returns the user-facing message for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindFormat:
		return "invalid format"
	case KindAddress:
		return "invalid Ethereum address"
	case KindAmount:
		return "wrong amount"
	case KindDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindAddress:
		return "address"
	case KindAmount:
		return "amount"
	case KindDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// LineError collects every problem found on a single input line.
type LineError struct {
	// Line is the 1-based line number in the trimmed input.
	Line int `json:"line" yaml:"line"`

	// Kinds lists the error classes in the order they were detected.
	Kinds []ErrorKind `json:"-" yaml:"-"`

	// Messages holds the human-readable message for each kind.
	Messages []string `json:"messages" yaml:"messages"`
}

// Add appends a problem of the given kind to the line error.
func (e *LineError) Add(kind ErrorKind) {
	e.Kinds = append(e.Kinds, kind)
	e.Messages = append(e.Messages, kind.Message())
}

// Has reports whether the line error contains the given kind.
func (e *LineError) Has(kind ErrorKind) bool {
	for _, k := range e.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, strings.Join(e.Messages, " and "))
}

// =============================================================================
// DUPLICATE INDEX
// =============================================================================

// DuplicateIndex maps an address (case-sensitive, as typed) to the ordered
// 1-based line numbers where it appears among valid lines. Addresses are kept
// in order of first appearance.
type DuplicateIndex struct {
	order []string
	lines map[string][]int
}

// NewDuplicateIndex returns an empty index.
func NewDuplicateIndex() *DuplicateIndex {
	return &DuplicateIndex{lines: make(map[string][]int)}
}

// Add records that address appeared on line.
func (d *DuplicateIndex) Add(address string, line int) {
	if _, ok := d.lines[address]; !ok {
		d.order = append(d.order, address)
	}
	d.lines[address] = append(d.lines[address], line)
}

// Lines returns the line numbers recorded for address.
func (d *DuplicateIndex) Lines(address string) []int {
	return d.lines[address]
}

// Len returns the number of distinct addresses.
func (d *DuplicateIndex) Len() int {
	return len(d.order)
}

// Notices returns one notice per address that appears on more than one line.
func (d *DuplicateIndex) Notices() []DuplicateNotice {
	var notices []DuplicateNotice
	for _, address := range d.order {
		lines := d.lines[address]
		if len(lines) > 1 {
			notices = append(notices, DuplicateNotice{Address: address, Lines: lines})
		}
	}
	return notices
}

// DuplicateNotice reports an address found on several valid lines.
type DuplicateNotice struct {
	Address string `json:"address" yaml:"address"`
	Lines   []int  `json:"lines" yaml:"lines"`
}

// String returns "<address> duplicate in line: <n>, <m>".
func (n DuplicateNotice) String() string {
	nums := make([]string, len(n.Lines))
	for i, line := range n.Lines {
		nums[i] = strconv.Itoa(line)
	}
	return fmt.Sprintf("%s duplicate in line: %s", n.Address, strings.Join(nums, ", "))
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult is the outcome of one validation pass.
type ValidationResult struct {
	// Records holds the parsed records in input order.
	// It is nil whenever Valid is false.
	Records []Record `json:"records" yaml:"records"`

	// Valid is true iff no line produced a LineError.
	// Duplicates alone never make a result invalid.
	Valid bool `json:"valid" yaml:"valid"`

	// HasDuplicates is true if any address appears on more than one valid line.
	HasDuplicates bool `json:"has_duplicates" yaml:"has_duplicates"`

	// Duplicates lists the duplicate notices in order of first appearance.
	Duplicates []DuplicateNotice `json:"duplicates" yaml:"duplicates"`

	// LineErrors lists the per-line errors in line order.
	LineErrors []LineError `json:"line_errors" yaml:"line_errors"`

	// LineCount is the number of lines examined.
	LineCount int `json:"line_count" yaml:"line_count"`
}

// Messages returns the duplicate notices followed by the per-line errors.
func (r *ValidationResult) Messages() []string {
	messages := make([]string, 0, len(r.Duplicates)+len(r.LineErrors))
	for _, notice := range r.Duplicates {
		messages = append(messages, notice.String())
	}
	for i := range r.LineErrors {
		messages = append(messages, r.LineErrors[i].Error())
	}
	return messages
}

// CountKind returns how many lines carry an error of the given kind.
func (r *ValidationResult) CountKind(kind ErrorKind) int {
	count := 0
	for i := range r.LineErrors {
		if r.LineErrors[i].Has(kind) {
			count++
		}
	}
	return count
}

// =============================================================================
// BATCH
// =============================================================================

// Batch is the payload handed to the downstream consumer on submission.
type Batch struct {
	// ID uniquely identifies the submission.
	ID string `json:"id" yaml:"id"`

	// Records are the validated records in input order.
	Records []Record `json:"records" yaml:"records"`

	// Total is the exact decimal sum of all amounts.
	Total decimal.Decimal `json:"total" yaml:"total"`

	// CreatedAt is when the batch was built.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SumAmounts returns the exact decimal sum of the record amounts.
func SumAmounts(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.Amount))
	}
	return total
}
