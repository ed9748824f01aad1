// Package metrics provides the regression error measures reported for price predictions.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrEmpty = errors.New("cannot compute metric on empty input")

// ShapeMismatchError is returned when predictions and targets differ in length
type ShapeMismatchError struct {
	True      int
	Predicted int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shapes of y_true (%d) and y_pred (%d) must match", e.True, e.Predicted)
}

func check(yTrue, yPred []float64) error {
	if len(yTrue) != len(yPred) {
		return &ShapeMismatchError{True: len(yTrue), Predicted: len(yPred)}
	}
	if len(yTrue) == 0 {
		return ErrEmpty
	}
	return nil
}

// RMSE is the root mean squared error.
func RMSE(yTrue, yPred []float64) (float64, error) {
	if err := check(yTrue, yPred); err != nil {
		return 0, err
	}
	return floats.Distance(yTrue, yPred, 2) / math.Sqrt(float64(len(yTrue))), nil
}

// MAE is the mean absolute error.
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := check(yTrue, yPred); err != nil {
		return 0, err
	}
	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue)), nil
}
