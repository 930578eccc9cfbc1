package dhreach

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is wrapped by every error caused by a malformed DH
	// table or a set of ranges that does not match it.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotTwoDimensional matches *NotTwoDimensionalError under errors.Is.
	ErrNotTwoDimensional = errors.New("workspace is not two dimensional")
)

// NotTwoDimensionalError is returned by Plot2DWorkspace when even the
// smallest axis of the workspace is larger than the threshold.
type NotTwoDimensionalError struct {
	Threshold float64
	Axis      Axis
	Magnitude float64
}

func (e *NotTwoDimensionalError) Error() string {
	return fmt.Sprintf(
		"No axis of the workspace is below the unused position threshold "+
			"%g: the smallest is %s with a maximum magnitude of %g.",
		e.Threshold, e.Axis, e.Magnitude,
	)
}

func (e *NotTwoDimensionalError) Is(target error) bool {
	return target == ErrNotTwoDimensional
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidInput}, args...)...)
}
