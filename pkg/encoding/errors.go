package encoding

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFitted is returned when a transform is attempted on state that was never fit.
	ErrNotFitted = errors.New("encoder has not been fit")

	// ErrEmptyInput is returned when fitting on zero rows.
	ErrEmptyInput = errors.New("cannot fit on empty input")
)

// UnseenCategoryError is returned by label encoding when a value was not part of the
// training vocabulary
type UnseenCategoryError struct {
	Column string
	Value  string
}

func (e *UnseenCategoryError) Error() string {
	return fmt.Sprintf("unknown value %q for categorical attribute %s", e.Value, e.Column)
}

// LengthMismatchError is returned when a feature column and its target are not row-aligned
type LengthMismatchError struct {
	Column  string
	Rows    int
	Targets int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("column %s has %d rows but target has %d", e.Column, e.Rows, e.Targets)
}
