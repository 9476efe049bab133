// =============================================================================
// Disperse Input - Session
// =============================================================================
//
// This module is the view-model behind the input area. It holds the current
// raw text together with everything derived from it, and exposes one handler
// per user event. Every handler takes the current State and returns the next
// one; no handler mutates the State it was given.
//
// EVENTS:
//   OnTextChanged   - the user typed or pasted text
//   OnFileLoaded    - the user uploaded a .txt, .csv or .xlsx file
//   OnKeepFirst     - resolve duplicates keeping the first occurrence
//   OnCombine       - resolve duplicates summing the amounts
//   OnSubmit        - hand the validated records to the consumer
//   OnToggleExample - show or hide the example input
//
// =============================================================================

package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/disperse-input/internal/config"
	"github.com/ginjaninja78/disperse-input/internal/loader"
	"github.com/ginjaninja78/disperse-input/internal/resolver"
	"github.com/ginjaninja78/disperse-input/internal/types"
	"github.com/ginjaninja78/disperse-input/internal/validation"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
	"github.com/ginjaninja78/disperse-input/pkg/utils"
)

// ExampleText is the sample input shown by the example popup.
const ExampleText = `0x2CB99F193549681e06C6770dDD5543812B4FaFE8=1
0x8B3392483BA26D65E331dB86D4F430E9B3814E5e 50
0x09ae5A64465c18718a46b3aD946270BD3E5e6aaB,13`

// =============================================================================
// STATE
// =============================================================================

// State is a snapshot of the input area.
type State struct {
	// Text is the raw text exactly as entered.
	Text string

	// Result is the validation pass run over Text.
	Result *types.ValidationResult

	// Errors are the messages shown below the input, duplicate notices first.
	Errors []string

	// HasDuplicates enables the keep-first and combine actions.
	HasDuplicates bool

	// CanSubmit is true when Text holds at least one record and no line errors.
	// Duplicates do not clear it.
	CanSubmit bool

	// ExampleOpen is true while the example popup is shown.
	ExampleOpen bool

	// LineNumbers is the gutter text for Text.
	LineNumbers string
}

// =============================================================================
// CONSUMER
// =============================================================================

// Consumer receives submitted batches.
type Consumer interface {
	Consume(ctx context.Context, batch types.Batch) error
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(ctx context.Context, batch types.Batch) error

// Consume calls f(ctx, batch).
func (f ConsumerFunc) Consume(ctx context.Context, batch types.Batch) error {
	return f(ctx, batch)
}

// =============================================================================
// MODEL
// =============================================================================

// Model turns events into new States.
type Model struct {
	validator *validation.Validator
	resolver  *resolver.Resolver
	consumer  Consumer
	logger    zerolog.Logger
	input     config.InputSettings
	newID     func() string
	now       func() time.Time
}

// Option configures a Model.
type Option func(*Model)

// WithConsumer sets the consumer that receives submitted batches.
func WithConsumer(c Consumer) Option {
	return func(m *Model) { m.consumer = c }
}

// WithLogger sets the logger used to report failed actions.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithInputSettings sets how uploaded .csv and .xlsx files are read.
func WithInputSettings(settings config.InputSettings) Option {
	return func(m *Model) { m.input = settings }
}

// WithIDGenerator replaces the batch ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Model) { m.newID = fn }
}

// WithClock replaces the clock used to stamp batches.
func WithClock(fn func() time.Time) Option {
	return func(m *Model) { m.now = fn }
}

// New creates a Model. A nil validator means the default rules.
func New(validator *validation.Validator, opts ...Option) *Model {
	if validator == nil {
		validator = validation.NewValidator()
	}

	m := &Model{
		validator: validator,
		resolver:  resolver.New(validator),
		logger:    zerolog.Nop(),
		input:     config.Default().Input,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

// OnTextChanged runs a full validation pass over text and returns the
// resulting state. Nothing derived from the previous text is kept.
func (m *Model) OnTextChanged(state State, text string) State {
	result := m.validator.Validate(text)

	next := State{
		Text:          text,
		Result:        result,
		Errors:        result.Messages(),
		HasDuplicates: result.HasDuplicates,
		CanSubmit:     result.Valid && len(result.Records) > 0,
		ExampleOpen:   state.ExampleOpen,
		LineNumbers:   LineNumbers(text),
	}

	m.logger.Debug().
		Int("lines", result.LineCount).
		Int("records", len(result.Records)).
		Int("errors", len(result.LineErrors)).
		Bool("duplicates", result.HasDuplicates).
		Msg("input validated")

	return next
}

// OnKeepFirst removes later occurrences of duplicate addresses.
func (m *Model) OnKeepFirst(state State) (State, error) {
	return m.resolve(state, resolver.KeepFirst)
}

// OnCombine sums the amounts of duplicate addresses.
func (m *Model) OnCombine(state State) (State, error) {
	return m.resolve(state, resolver.Combine)
}

// resolve applies strategy to the text of state. When the text has line
// errors the failure is logged and state is returned unchanged.
func (m *Model) resolve(state State, strategy resolver.Strategy) (State, error) {
	resolution, err := m.resolver.Resolve(state.Text, strategy)
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("strategy", strategy.String()).
			Msg("duplicate resolution failed")
		return state, err
	}

	m.logger.Info().
		Str("strategy", strategy.String()).
		Int("removed", resolution.Removed).
		Msg("duplicates resolved")

	return State{
		Text:          resolution.Text,
		Result:        resolution.Result,
		Errors:        resolution.Result.Messages(),
		HasDuplicates: resolution.Result.HasDuplicates,
		CanSubmit:     resolution.Result.Valid && len(resolution.Result.Records) > 0,
		ExampleOpen:   state.ExampleOpen,
		LineNumbers:   LineNumbers(resolution.Text),
	}, nil
}

// OnSubmit hands the validated records of state to the consumer.
//
// RETURNS:
//   - The state, unchanged.
//   - The submitted batch, or nil when submission was rejected.
//   - An error wrapping errors.ErrSubmissionBlocked when the text has line
//     errors, errors.ErrEmptyBatch when it has no records, or the
//     consumer's error.
func (m *Model) OnSubmit(ctx context.Context, state State) (State, *types.Batch, error) {
	result := m.validator.Validate(state.Text)
	if !result.Valid {
		return state, nil, errors.NewInputError("submit", errors.ErrSubmissionBlocked, result.Messages())
	}
	if len(result.Records) == 0 {
		return state, nil, errors.ErrEmptyBatch
	}

	batch := &types.Batch{
		ID:        m.newID(),
		Records:   result.Records,
		Total:     types.SumAmounts(result.Records),
		CreatedAt: m.now().UTC(),
	}

	if m.consumer != nil {
		if err := m.consumer.Consume(ctx, *batch); err != nil {
			m.logger.Error().Err(err).Str("batch_id", batch.ID).Msg("batch consumer failed")
			return state, nil, fmt.Errorf("failed to submit batch %s: %w", batch.ID, err)
		}
	}

	m.logger.Info().
		Str("batch_id", batch.ID).
		Int("records", len(batch.Records)).
		Str("total", batch.Total.String()).
		Bool("duplicates", result.HasDuplicates).
		Msg("batch submitted")

	return state, batch, nil
}

// OnFileLoaded replaces the text with the content of the file at path and
// validates it exactly as typed input.
func (m *Model) OnFileLoaded(state State, path string) (State, error) {
	text, err := loader.Load(path, m.input)
	if err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("failed to load input file")
		return state, err
	}

	m.logger.Debug().Str("path", path).Msg("input file loaded")
	return m.OnTextChanged(state, utils.NormalizeNewlines(text)), nil
}

// OnToggleExample shows or hides the example popup.
func (m *Model) OnToggleExample(state State) State {
	state.ExampleOpen = !state.ExampleOpen
	return state
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// LineNumbers returns "1\n2\n...\nn" where n is the number of lines in text.
func LineNumbers(text string) string {
	count := strings.Count(text, "\n") + 1
	nums := make([]string, count)
	for i := range nums {
		nums[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(nums, "\n")
}
