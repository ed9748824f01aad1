package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRMSE_MAE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		rmse  float64
		mae   float64
	}{
		{"perfect", []float64{1, 2, 3}, []float64{1, 2, 3}, 0, 0},
		{"constant offset", []float64{1, 2, 3}, []float64{2, 3, 4}, 1, 1},
		{"mixed", []float64{0, 0, 0, 0}, []float64{3, -4, 0, 0}, math.Sqrt(25.0 / 4), 7.0 / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rmse, err := RMSE(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			require.InDelta(t, tt.rmse, rmse, 1e-12)

			mae, err := MAE(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			require.InDelta(t, tt.mae, mae, 1e-12)
		})
	}
}

func TestShapeMismatch(t *testing.T) {
	_, err := RMSE([]float64{1, 2}, []float64{1})
	var shapeErr *ShapeMismatchError
	require.True(t, errors.As(err, &shapeErr))
	require.Equal(t, 2, shapeErr.True)

	_, err = MAE([]float64{1}, []float64{1, 2})
	require.True(t, errors.As(err, &shapeErr))

	_, err = RMSE(nil, nil)
	require.True(t, errors.Is(err, ErrEmpty))
}
