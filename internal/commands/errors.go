package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command failures that are not already go-errors values.
const (
	CodeInvalidCommand   = "EDXML_COMMAND_INVALID"
	CodeCommandCancelled = "EDXML_COMMAND_CANCELLED"
	CodeCommandTimeout   = "EDXML_COMMAND_TIMEOUT"
	CodeCommandFailed    = "EDXML_COMMAND_FAILED"
)

// settled reports whether err needs no further tagging. Errors that already
// carry a category, such as conversion boundary failures, pass through.
func settled(err error) bool {
	return err == nil || goerrors.IsWrapped(err)
}

func wrapValidationError(err error) error {
	if settled(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "edxml command rejected").
		WithTextCode(CodeInvalidCommand)
}

func wrapContextError(err error) error {
	if settled(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "edxml command timed out").
			WithTextCode(CodeCommandTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "edxml command cancelled").
		WithTextCode(CodeCommandCancelled)
}

func wrapExecuteError(err error) error {
	if settled(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "edxml command failed").
		WithTextCode(CodeCommandFailed)
}
