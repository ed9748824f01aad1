package encoding

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"carprep/pkg/config"
)

// TargetEncoder replaces a category with a smoothed mean of the target over the training rows
// of that category:
//
//	(count*categoryMean + smoothing*globalMean) / (count + smoothing)
//
// Categories seen fewer than MinSamplesLeaf times get the global mean.
type TargetEncoder struct {
	config config.TargetEncoder
}

func NewTargetEncoder(cfg config.TargetEncoder) *TargetEncoder {
	return &TargetEncoder{config: cfg}
}

// FittedTargetEncoder holds the category statistics computed by TargetEncoder.Fit
type FittedTargetEncoder struct {
	Mapping    map[string]float64
	GlobalMean float64
	NoiseLevel float64
}

// Fit computes the statistic of every distinct category. categories and targets must be
// row-aligned and come from the training split only.
func (e *TargetEncoder) Fit(categories []string, targets []float64) (*FittedTargetEncoder, error) {
	if len(categories) != len(targets) {
		return nil, &LengthMismatchError{Rows: len(categories), Targets: len(targets)}
	}
	if len(categories) == 0 {
		return nil, ErrEmptyInput
	}

	globalMean := stat.Mean(targets, nil)

	byCategory := map[string][]float64{}
	for i, category := range categories {
		byCategory[category] = append(byCategory[category], targets[i])
	}

	mapping := make(map[string]float64, len(byCategory))
	for category, values := range byCategory {
		count := len(values)
		if count < e.config.MinSamplesLeaf {
			mapping[category] = globalMean
			continue
		}
		n := float64(count)
		mapping[category] = (n*stat.Mean(values, nil) + e.config.Smoothing*globalMean) / (n + e.config.Smoothing)
	}

	return &FittedTargetEncoder{
		Mapping:    mapping,
		GlobalMean: globalMean,
		NoiseLevel: e.config.NoiseLevel,
	}, nil
}

// Lookup returns the statistic of a category, or the global mean for unseen categories.
func (f *FittedTargetEncoder) Lookup(category string) float64 {
	if value, ok := f.Mapping[category]; ok {
		return value
	}
	return f.GlobalMean
}

// Transform encodes every category and adds independent N(0, NoiseLevel) noise drawn from src.
// The noise is redrawn on every call. A nil src draws from the package-level generator.
func (f *FittedTargetEncoder) Transform(categories []string, src rand.Source) ([]float64, error) {
	if f == nil || f.Mapping == nil {
		return nil, ErrNotFitted
	}

	result := make([]float64, len(categories))
	for i, category := range categories {
		result[i] = f.Lookup(category)
	}

	if f.NoiseLevel > 0 {
		noise := distuv.Normal{Mu: 0, Sigma: f.NoiseLevel, Src: src}
		for i := range result {
			result[i] += noise.Rand()
		}
	}
	return result, nil
}
