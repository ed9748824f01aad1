package encoding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"carprep/pkg/config"
)

const tolerance = 1e-9

var (
	teCategories = []string{"a", "a", "a", "b", "b", "c"}
	teTargets    = []float64{10, 20, 30, 40, 60, 100}
	// global mean = 260 / 6
	teGlobalMean = 260.0 / 6
)

func fitTarget(t *testing.T, cfg config.TargetEncoder) *FittedTargetEncoder {
	fitted, err := NewTargetEncoder(cfg).Fit(teCategories, teTargets)
	require.NoError(t, err)
	return fitted
}

func TestTargetEncoder_Fit(t *testing.T) {
	fitted := fitTarget(t, config.TargetEncoder{Smoothing: 1, MinSamplesLeaf: 1})

	require.InDelta(t, teGlobalMean, fitted.GlobalMean, tolerance)
	require.Equal(t, 3, len(fitted.Mapping))
	require.InDelta(t, (3*20+teGlobalMean)/4, fitted.Mapping["a"], tolerance)
	require.InDelta(t, (2*50+teGlobalMean)/3, fitted.Mapping["b"], tolerance)
	require.InDelta(t, (100+teGlobalMean)/2, fitted.Mapping["c"], tolerance)
}

func TestTargetEncoder_MinSamplesLeaf(t *testing.T) {
	fitted := fitTarget(t, config.TargetEncoder{Smoothing: 1, MinSamplesLeaf: 3})

	// "a" has exactly min_samples_leaf rows and keeps its statistic
	require.InDelta(t, (3*20+teGlobalMean)/4, fitted.Mapping["a"], tolerance)
	require.InDelta(t, teGlobalMean, fitted.Mapping["b"], tolerance)
	require.InDelta(t, teGlobalMean, fitted.Mapping["c"], tolerance)
}

func TestTargetEncoder_SmoothingLimits(t *testing.T) {
	tests := []struct {
		smoothing float64
		expected  float64
	}{
		{smoothing: 0.0001, expected: 20},
		{smoothing: 10000, expected: teGlobalMean},
	}

	for _, tt := range tests {
		fitted := fitTarget(t, config.TargetEncoder{Smoothing: tt.smoothing, MinSamplesLeaf: 1})
		require.InDelta(t, tt.expected, fitted.Mapping["a"], 0.01)
	}
}

func TestTargetEncoder_TransformDeterministicWithoutNoise(t *testing.T) {
	fitted := fitTarget(t, config.TargetEncoder{Smoothing: 1, MinSamplesLeaf: 1})
	input := []string{"c", "a", "unseen", "b"}

	first, err := fitted.Transform(input, rand.NewSource(1))
	require.NoError(t, err)
	second, err := fitted.Transform(input, rand.NewSource(2))
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Equal(t, fitted.Mapping["c"], first[0])
	require.Equal(t, fitted.GlobalMean, first[2])
}

func TestTargetEncoder_TransformNoise(t *testing.T) {
	fitted := fitTarget(t, config.TargetEncoder{Smoothing: 1, MinSamplesLeaf: 1, NoiseLevel: 0.5})
	input := make([]string, 1000)
	for i := range input {
		input[i] = "a"
	}

	src := rand.NewSource(42)
	first, err := fitted.Transform(input, src)
	require.NoError(t, err)
	second, err := fitted.Transform(input, src)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	replay, err := fitted.Transform(input, rand.NewSource(42))
	require.NoError(t, err)
	require.Equal(t, first, replay)

	mean := 0.0
	for _, v := range first {
		mean += v
	}
	mean /= float64(len(first))
	require.InDelta(t, fitted.Mapping["a"], mean, 0.1)
}

func TestTargetEncoder_Errors(t *testing.T) {
	encoder := NewTargetEncoder(config.DefaultTargetEncoder())

	_, err := encoder.Fit([]string{"a"}, []float64{1, 2})
	var lengthErr *LengthMismatchError
	require.True(t, errors.As(err, &lengthErr))

	_, err = encoder.Fit(nil, nil)
	require.True(t, errors.Is(err, ErrEmptyInput))

	var unfitted FittedTargetEncoder
	_, err = unfitted.Transform([]string{"a"}, nil)
	require.True(t, errors.Is(err, ErrNotFitted))
}
