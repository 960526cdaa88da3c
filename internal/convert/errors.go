package convert

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// BoundaryFailedCode tags errors raised by the external conversion boundary.
const BoundaryFailedCode = "CONVERSION_BOUNDARY_FAILED"

// WrapBoundaryError tags err as a conversion boundary failure. Errors that
// already carry the code are returned unchanged.
func WrapBoundaryError(err error, name string) error {
	if err == nil {
		return nil
	}
	var existing *goerrors.Error
	if errors.As(err, &existing) && existing.TextCode == BoundaryFailedCode {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "markdown conversion failed").
		WithTextCode(BoundaryFailedCode).
		WithMetadata(map[string]any{"converter": name})
}

// IsBoundaryFailure reports whether err came from the conversion boundary.
func IsBoundaryFailure(err error) bool {
	var target *goerrors.Error
	if !errors.As(err, &target) {
		return false
	}
	return target.TextCode == BoundaryFailedCode
}
