package config

import (
	"fmt"
	"math"
	"sort"
)

// SearchSpace declares the candidate values of every tunable preprocessing parameter.
// Keys are the flat parameter names understood by FromParams.
func SearchSpace() map[string][]interface{} {
	flag := []interface{}{true, false}
	return map[string][]interface{}{
		"target_smoothing":        {0.5, 1.0, 2.0, 5.0, 10.0},
		"target_min_samples_leaf": {1, 5, 10, 20, 50},
		"target_noise_level":      {0.0, 0.01, 0.05, 0.1, 0.2},

		"price_upper_bound": {35000.0, 40000.0, 45000.0, 50000.0},
		"price_lower_bound": {500.0, 1000.0, 1500.0, 2000.0},

		"condition_use_target_encoding":    flag,
		"cylinder_use_target_encoding":     flag,
		"drive_use_label_encoding":         flag,
		"drive_use_target_encoding":        flag,
		"fuel_use_label_encoding":          flag,
		"fuel_use_target_encoding":         flag,
		"manufacturer_use_grouping":        flag,
		"manufacturer_use_label_encoding":  flag,
		"manufacturer_use_target_encoding": flag,
		"paint_color_use_grouping":         flag,
		"paint_color_use_label_encoding":   flag,
		"paint_color_use_target_encoding":  flag,
		"state_use_grouping":               flag,
		"state_use_top_tier_flag":          flag,
		"state_use_label_encoding":         flag,
		"state_use_target_encoding":        flag,
		"transmission_use_label_encoding":  flag,
		"transmission_use_target_encoding": flag,
		"type_use_grouping":                flag,
		"type_use_label_encoding":          flag,
		"type_use_target_encoding":         flag,
		"year_use_1987_flag":               flag,
		"year_use_1975_flag":               flag,
	}
}

// SearchSpaceKeys returns the parameter names of SearchSpace in sorted order.
func SearchSpaceKeys() []string {
	space := SearchSpace()
	keys := make([]string, 0, len(space))
	for k := range space {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type params map[string]interface{}

func (p params) boolean(key string, fallback bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return fallback, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &ConfigurationError{Reason: fmt.Sprintf("parameter %s must be a boolean, got %T", key, v)}
	}
	return b, nil
}

func (p params) number(key string, fallback float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return fallback, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, &ConfigurationError{Reason: fmt.Sprintf("parameter %s must be numeric, got %T", key, v)}
	}
}

// FromParams builds a configuration from flat search parameters. Missing parameters take
// their default value. Encoders whose target encoding is disabled get no target encoder
// configuration.
func FromParams(values map[string]interface{}) (Preprocessor, error) {
	p := params(values)
	defaults := DefaultTargetEncoder()

	smoothing, err := p.number("target_smoothing", defaults.Smoothing)
	if err != nil {
		return Preprocessor{}, err
	}
	minSamples, err := p.number("target_min_samples_leaf", float64(defaults.MinSamplesLeaf))
	if err != nil {
		return Preprocessor{}, err
	}
	if minSamples != math.Trunc(minSamples) {
		return Preprocessor{}, &ConfigurationError{
			Reason: fmt.Sprintf("parameter target_min_samples_leaf must be an integer, got %v", minSamples),
		}
	}
	noise, err := p.number("target_noise_level", defaults.NoiseLevel)
	if err != nil {
		return Preprocessor{}, err
	}
	te := TargetEncoder{Smoothing: smoothing, MinSamplesLeaf: int(minSamples), NoiseLevel: noise}
	targetFor := func(use bool) *TargetEncoder {
		if !use {
			return nil
		}
		copied := te
		return &copied
	}

	cfg := Default()
	var errs []error
	flag := func(key string) bool {
		b, err := p.boolean(key, true)
		if err != nil {
			errs = append(errs, err)
		}
		return b
	}

	cfg.Condition.UseTargetEncoding = flag("condition_use_target_encoding")
	cfg.Condition.TargetEncoder = targetFor(cfg.Condition.UseTargetEncoding)
	cfg.Cylinders.UseTargetEncoding = flag("cylinder_use_target_encoding")
	cfg.Cylinders.TargetEncoder = targetFor(cfg.Cylinders.UseTargetEncoding)

	categorical := func(prefix string, c *CategoricalEncoder) {
		c.UseLabelEncoding = flag(prefix + "_use_label_encoding")
		c.UseTargetEncoding = flag(prefix + "_use_target_encoding")
		c.TargetEncoder = targetFor(c.UseTargetEncoding)
	}
	categorical("drive", &cfg.Drive)
	categorical("fuel", &cfg.Fuel)
	categorical("transmission", &cfg.Transmission)

	grouped := func(prefix string, c *GroupedEncoder) {
		c.UseGrouping = flag(prefix + "_use_grouping")
		c.UseLabelEncoding = flag(prefix + "_use_label_encoding")
		c.UseTargetEncoding = flag(prefix + "_use_target_encoding")
		c.TargetEncoder = targetFor(c.UseTargetEncoding)
	}
	grouped("manufacturer", &cfg.Manufacturer)
	grouped("paint_color", &cfg.PaintColor)
	grouped("type", &cfg.Type)

	cfg.State.UseGrouping = flag("state_use_grouping")
	cfg.State.UseTopTierFlag = flag("state_use_top_tier_flag")
	cfg.State.UseLabelEncoding = flag("state_use_label_encoding")
	cfg.State.UseTargetEncoding = flag("state_use_target_encoding")
	cfg.State.TargetEncoder = targetFor(cfg.State.UseTargetEncoding)

	cfg.Year.Use1987Flag = flag("year_use_1987_flag")
	cfg.Year.Use1975Flag = flag("year_use_1975_flag")

	if len(errs) > 0 {
		return Preprocessor{}, errs[0]
	}

	if cfg.PriceUpperBound, err = p.number("price_upper_bound", DefaultPriceUpperBound); err != nil {
		return Preprocessor{}, err
	}
	if cfg.PriceLowerBound, err = p.number("price_lower_bound", DefaultPriceLowerBound); err != nil {
		return Preprocessor{}, err
	}
	cfg.RemoveOutliersVal = true

	if err := cfg.Validate(); err != nil {
		return Preprocessor{}, err
	}
	return cfg, nil
}
