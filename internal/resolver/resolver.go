// =============================================================================
// Disperse Input - Duplicate Resolver
// =============================================================================
//
// This module removes duplicate addresses from a validated record list using
// one of two strategies:
//
//   keep-first : retain the earliest occurrence of each address
//   combine    : sum the amounts of every occurrence of each address
//
// Both strategies keep addresses in order of first appearance. The result is
// serialized back into canonical "<address>=<amount>" lines and validated
// again, so the caller always receives a fresh ValidationResult.
//
// =============================================================================

package resolver

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/disperse-input/internal/types"
	"github.com/ginjaninja78/disperse-input/internal/validation"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
)

// Strategy selects how duplicate addresses are resolved.
type Strategy int

const (
	// KeepFirst keeps only the first occurrence of each address.
	KeepFirst Strategy = iota
	// Combine sums the amounts of all occurrences of each address.
	Combine
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case KeepFirst:
		return "keep-first"
	case Combine:
		return "combine"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts a strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "keep-first", "keep_first", "keep", "first":
		return KeepFirst, nil
	case "combine", "sum":
		return Combine, nil
	default:
		return 0, fmt.Errorf("%w: %q", errors.ErrUnknownStrategy, name)
	}
}

// Apply runs the strategy over records.
func (s Strategy) Apply(records []types.Record) []types.Record {
	if s == Combine {
		return CombineAmounts(records)
	}
	return KeepFirstOccurrences(records)
}

// =============================================================================
// STRATEGIES
// =============================================================================

// KeepFirstOccurrences returns records with later occurrences of an address
// discarded.
func KeepFirstOccurrences(records []types.Record) []types.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Address]; ok {
			continue
		}
		seen[r.Address] = struct{}{}
		out = append(out, r)
	}
	return out
}

// CombineAmounts returns one record per address whose amount is the sum of
// every occurrence. Plain float64 addition is used.
func CombineAmounts(records []types.Record) []types.Record {
	positions := make(map[string]int, len(records))
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if i, ok := positions[r.Address]; ok {
			out[i].Amount += r.Amount
			continue
		}
		positions[r.Address] = len(out)
		out = append(out, r)
	}
	return out
}

// Serialize renders records as canonical "<address>=<amount>" lines.
func Serialize(records []types.Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver validates, resolves and re-validates raw text.
type Resolver struct {
	validator *validation.Validator
}

// New creates a Resolver that uses validator for both validation passes.
func New(validator *validation.Validator) *Resolver {
	if validator == nil {
		validator = validation.NewValidator()
	}
	return &Resolver{validator: validator}
}

// Resolution is the outcome of a successful resolve.
type Resolution struct {
	// Strategy is the strategy that was applied.
	Strategy Strategy

	// Text is the canonical text produced by the strategy.
	Text string

	// Result is the validation pass run over Text.
	Result *types.ValidationResult

	// Removed is the number of input records folded away.
	Removed int
}

// Resolve validates raw, applies strategy and validates the produced text
// exactly once. When raw has format, address or amount errors it returns an
// error wrapping errors.ErrResolutionBlocked and no resolution.
func (r *Resolver) Resolve(raw string, strategy Strategy) (*Resolution, error) {
	before := r.validator.Validate(raw)
	if before.Records == nil {
		return nil, errors.NewInputError(strategy.String(), errors.ErrResolutionBlocked, before.Messages())
	}

	resolved := strategy.Apply(before.Records)
	text := Serialize(resolved)

	return &Resolution{
		Strategy: strategy,
		Text:     text,
		Result:   r.validator.Validate(text),
		Removed:  len(before.Records) - len(resolved),
	}, nil
}
