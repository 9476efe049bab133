// =============================================================================
// Disperse Input - Validation Engine
// =============================================================================
//
// This module turns raw multi-line text into validated records. Each line is
// expected to hold an address and an amount separated by any run of spaces,
// commas or equals signs:
//
//   0x2CB99F193549681e06C6770dDD5543812B4FaFE8=1
//   0x8B3392483BA26D65E331dB86D4F430E9B3814E5e 50
//   0x09ae5A64465c18718a46b3aD946270BD3E5e6aaB,13
//
// VALIDATION STRATEGY:
//   1. Format: the line must split into exactly two tokens
//   2. Address: exact length and required prefix (no checksum, no hex check)
//   3. Amount: finite and strictly greater than zero
//   4. Duplicates: addresses seen on more than one valid line are reported,
//      but never make the result invalid
//
// ERROR HANDLING:
//   - Errors are collected, not returned on the first bad line
//   - A line with a format error skips the address and amount checks
//   - Every pass rebuilds the duplicate index from scratch
//
// =============================================================================

package validation

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/disperse-input/internal/types"
	"github.com/ginjaninja78/disperse-input/pkg/utils"
)

// separatorPattern matches a run of whitespace, commas or equals signs.
// Leading or trailing separators produce empty tokens.
var separatorPattern = regexp.MustCompile(`[\s\v\p{Zs}\x{feff}\x{2028}\x{2029}=,]+`)

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator validates raw input text.
type Validator struct {
	options ValidationOptions
}

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// AddressLength is the exact number of characters an address must have.
	// Default: 42
	AddressLength int

	// AddressPrefix is the prefix every address must start with.
	// Default: "0x"
	AddressPrefix string

	// AllowEmpty treats empty or whitespace-only input as "no data, no error".
	// When false, empty input is reported as a format error on line 1.
	// Default: true
	AllowEmpty bool
}

// DefaultValidationOptions returns the default validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		AddressLength: 42,
		AddressPrefix: "0x",
		AllowEmpty:    true,
	}
}

// NewValidator creates a new Validator with default options.
func NewValidator() *Validator {
	return NewValidatorWithOptions(DefaultValidationOptions())
}

// NewValidatorWithOptions creates a new Validator with custom options.
// Zero-valued address settings fall back to the defaults.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	defaults := DefaultValidationOptions()
	if options.AddressLength <= 0 {
		options.AddressLength = defaults.AddressLength
	}
	if options.AddressPrefix == "" {
		options.AddressPrefix = defaults.AddressPrefix
	}
	return &Validator{options: options}
}

// Options returns the options the validator was built with.
func (v *Validator) Options() ValidationOptions {
	return v.options
}

// Validate is a convenience function that validates raw text with the
// default options.
func Validate(raw string) *types.ValidationResult {
	return NewValidator().Validate(raw)
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate runs one full validation pass over raw.
//
// RETURNS:
//   - A ValidationResult whose Records are set only when no line has a
//     format, address or amount error. Duplicate notices and line errors are
//     always populated.
func (v *Validator) Validate(raw string) *types.ValidationResult {
	trimmed := utils.TrimInput(raw)

	result := &types.ValidationResult{}
	if trimmed == "" && v.options.AllowEmpty {
		result.Valid = true
		result.Records = []types.Record{}
		return result
	}

	lines := strings.Split(trimmed, "\n")
	result.LineCount = len(lines)

	index := types.NewDuplicateIndex()
	records := make([]types.Record, 0, len(lines))

	for i, line := range lines {
		lineNumber := i + 1

		record, lineErr := v.ValidateLine(line, lineNumber)
		if lineErr != nil {
			result.LineErrors = append(result.LineErrors, *lineErr)
			continue
		}

		index.Add(record.Address, lineNumber)
		records = append(records, record)
	}

	result.Duplicates = index.Notices()
	result.HasDuplicates = len(result.Duplicates) > 0
	result.Valid = len(result.LineErrors) == 0
	if result.Valid {
		result.Records = records
	}

	return result
}

// ValidateLine validates a single line. It returns the parsed record, or a
// LineError describing every problem found on the line.
func (v *Validator) ValidateLine(line string, lineNumber int) (types.Record, *types.LineError) {
	tokens := SplitLine(line)
	if len(tokens) != 2 {
		lineErr := &types.LineError{Line: lineNumber}
		lineErr.Add(types.KindFormat)
		return types.Record{}, lineErr
	}

	address, amountStr := tokens[0], tokens[1]
	amount, amountOK := ParseAmount(amountStr)

	lineErr := &types.LineError{Line: lineNumber}
	if !v.ValidateAddress(address) {
		lineErr.Add(types.KindAddress)
	}
	if !amountOK {
		lineErr.Add(types.KindAmount)
	}
	if len(lineErr.Kinds) > 0 {
		return types.Record{}, lineErr
	}

	return types.Record{Address: address, Amount: amount}, nil
}

// ValidateAddress performs the structural address check.
func (v *Validator) ValidateAddress(address string) bool {
	return len(address) == v.options.AddressLength && strings.HasPrefix(address, v.options.AddressPrefix)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// SplitLine splits a line on runs of whitespace, commas or equals signs.
func SplitLine(line string) []string {
	return separatorPattern.Split(line, -1)
}

// ParseAmount parses an amount token the way a numeric string literal is
// read: an optional sign with decimal and exponent notation, or an unsigned
// 0x, 0o or 0b integer literal of any length. Digit separators and hex
// floats are not accepted. It reports false for anything that is not a
// finite number strictly greater than zero.
func ParseAmount(s string) (float64, bool) {
	var (
		amount float64
		err    error
	)

	switch {
	case strings.ContainsRune(s, '_'):
		return 0, false
	case hasBasePrefix(s):
		amount, err = parseIntegerLiteral(s)
	case hasBasePrefix(strings.TrimLeft(s, "+-")):
		// Prefixed literals take no sign.
		return 0, false
	default:
		amount, err = strconv.ParseFloat(s, 64)
	}
	if err != nil {
		return 0, false
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func hasBasePrefix(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

// parseIntegerLiteral parses a prefixed integer literal such as 0x1f,
// rounding to the nearest float64. Literals too large for float64 become +Inf.
func parseIntegerLiteral(s string) (float64, error) {
	var base int
	switch s[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	default:
		base = 2
	}

	digits := s[2:]
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return 0, strconv.ErrSyntax
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f, nil
}
