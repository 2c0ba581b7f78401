package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command errors that were not already categorised.
const (
	TextCodeValidation    = "MARKITUP_COMMAND_INVALID"
	TextCodeCanceled      = "MARKITUP_COMMAND_CANCELED"
	TextCodeTimeout       = "MARKITUP_COMMAND_TIMEOUT"
	TextCodeContext       = "MARKITUP_COMMAND_CONTEXT"
	TextCodeExecuteFailed = "MARKITUP_COMMAND_FAILED"
)

// Errors from the markup and documents packages already carry a category and
// text code; they pass through untouched.
func categorise(err error, category goerrors.Category, message, code string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return categorise(err, goerrors.CategoryValidation, "command validation failed", TextCodeValidation)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return categorise(err, goerrors.CategoryCommand, "command canceled", TextCodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return categorise(err, goerrors.CategoryCommand, "command timed out", TextCodeTimeout)
	}
	return categorise(err, goerrors.CategoryCommand, "command context error", TextCodeContext)
}

func wrapExecuteError(err error) error {
	return categorise(err, goerrors.CategoryCommand, "command execution failed", TextCodeExecuteFailed)
}
