package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/ginjaninja78/disperse-input/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestInputError(t *testing.T) {
	t.Run("unwraps to sentinel", func(t *testing.T) {
		err := pkgerrors.NewInputError("combine", pkgerrors.ErrResolutionBlocked, []string{"Line 1: wrong amount"})
		assert.True(t, pkgerrors.IsResolutionBlocked(err))
		assert.True(t, pkgerrors.IsInvalidInput(err))
		assert.False(t, pkgerrors.IsSubmissionBlocked(err))
	})

	t.Run("message", func(t *testing.T) {
		err := pkgerrors.NewInputError("submit", pkgerrors.ErrSubmissionBlocked, []string{"a", "b"})
		assert.Equal(t, "submit: submission blocked by invalid lines (2 problem(s))", err.Error())
	})

	t.Run("wrapped", func(t *testing.T) {
		base := pkgerrors.NewInputError("keep-first", pkgerrors.ErrResolutionBlocked, nil)
		wrapped := fmt.Errorf("handler: %w", base)
		var target *pkgerrors.InputError
		assert.True(t, errors.As(wrapped, &target))
		assert.Equal(t, "keep-first", target.Op)
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and line", func(t *testing.T) {
		err := pkgerrors.NewParseError("csv", "in.csv", "bare quote", nil)
		err.Line = 4
		assert.Equal(t, "parse error in csv at in.csv:4: bare quote", err.Error())
	})

	t.Run("with file only", func(t *testing.T) {
		err := pkgerrors.NewParseError("xlsx", "in.xlsx", "no sheets", nil)
		assert.Equal(t, "parse error in xlsx file in.xlsx: no sheets", err.Error())
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("boom")
		err := pkgerrors.NewParseError("csv", "", "read failed", base)
		assert.Equal(t, "csv parse error: read failed", err.Error())
		assert.ErrorIs(t, err, base)
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.NewIOError("read", "/tmp/x", base)
	assert.Contains(t, err.Error(), "read")
	assert.Contains(t, err.Error(), "/tmp/x")
	assert.ErrorIs(t, err, base)

	noPath := pkgerrors.NewIOError("write", "", base)
	assert.Equal(t, "IO error during write: permission denied", noPath.Error())
}
