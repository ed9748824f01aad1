// Package config holds the parameter bundles of the column encoders and of the preprocessor.
package config

// TargetEncoder configures a target encoder
type TargetEncoder struct {
	// Smoothing shrinks a category mean toward the global mean; higher values regularize more.
	Smoothing float64 `yaml:"smoothing" validate:"gte=0"`

	// MinSamplesLeaf is the minimum category count required to use the category statistic.
	MinSamplesLeaf int `yaml:"min_samples_leaf" validate:"gte=1"`

	// NoiseLevel is the standard deviation of the Gaussian noise added at transform time.
	NoiseLevel float64 `yaml:"noise_level" validate:"gte=0,lte=1"`
}

type ConditionEncoder struct {
	UseTargetEncoding bool           `yaml:"use_target_encoding"`
	TargetEncoder     *TargetEncoder `yaml:"target_encoder_config" validate:"omitempty"`
}

type CylindersEncoder struct {
	UseTargetEncoding bool           `yaml:"use_target_encoding"`
	TargetEncoder     *TargetEncoder `yaml:"target_encoder_config" validate:"omitempty"`
}

// CategoricalEncoder configures the drive, fuel and transmission encoders
type CategoricalEncoder struct {
	UseLabelEncoding  bool           `yaml:"use_label_encoding"`
	UseTargetEncoding bool           `yaml:"use_target_encoding"`
	TargetEncoder     *TargetEncoder `yaml:"target_encoder_config" validate:"omitempty"`
}

// GroupedEncoder configures the manufacturer, paint color and type encoders
type GroupedEncoder struct {
	UseGrouping       bool           `yaml:"use_grouping"`
	UseLabelEncoding  bool           `yaml:"use_label_encoding"`
	UseTargetEncoding bool           `yaml:"use_target_encoding"`
	TargetEncoder     *TargetEncoder `yaml:"target_encoder_config" validate:"omitempty"`
}

type StateEncoder struct {
	UseGrouping       bool           `yaml:"use_grouping"`
	UseTopTierFlag    bool           `yaml:"use_top_tier_flag"`
	UseLabelEncoding  bool           `yaml:"use_label_encoding"`
	UseTargetEncoding bool           `yaml:"use_target_encoding"`
	TargetEncoder     *TargetEncoder `yaml:"target_encoder_config" validate:"omitempty"`
}

type YearEncoder struct {
	Use1987Flag bool `yaml:"use_1987_flag"`
	Use1975Flag bool `yaml:"use_1975_flag"`
}

// Preprocessor bundles the configuration of every encoder and the outlier bounds
type Preprocessor struct {
	Condition    ConditionEncoder   `yaml:"condition_encoder_config"`
	Cylinders    CylindersEncoder   `yaml:"cylinder_encoder_config"`
	Drive        CategoricalEncoder `yaml:"drive_encoder_config"`
	Fuel         CategoricalEncoder `yaml:"fuel_encoder_config"`
	Manufacturer GroupedEncoder     `yaml:"manufacturer_encoder_config"`
	PaintColor   GroupedEncoder     `yaml:"paint_color_encoder_config"`
	State        StateEncoder       `yaml:"state_encoder_config"`
	Transmission CategoricalEncoder `yaml:"transmission_encoder_config"`
	Type         GroupedEncoder     `yaml:"type_encoder_config"`
	Year         YearEncoder        `yaml:"year_encoder_config"`

	PriceUpperBound float64 `yaml:"price_upper_bound" validate:"gt=0,gtfield=PriceLowerBound"`
	PriceLowerBound float64 `yaml:"price_lower_bound" validate:"gte=0"`

	// RemoveOutliersVal applies the training outlier filter to the validation split as well.
	// The test split is never filtered.
	RemoveOutliersVal bool `yaml:"remove_outliers_val"`
}

const (
	DefaultPriceUpperBound = 40000
	DefaultPriceLowerBound = 1000
)

func DefaultTargetEncoder() TargetEncoder {
	return TargetEncoder{
		Smoothing:      1.0,
		MinSamplesLeaf: 1,
		NoiseLevel:     0.1,
	}
}

// Default returns the configuration with every sub-behavior enabled.
func Default() Preprocessor {
	te := DefaultTargetEncoder()
	target := func() *TargetEncoder {
		copied := te
		return &copied
	}
	return Preprocessor{
		Condition: ConditionEncoder{UseTargetEncoding: true, TargetEncoder: target()},
		Cylinders: CylindersEncoder{UseTargetEncoding: true, TargetEncoder: target()},
		Drive:     CategoricalEncoder{UseLabelEncoding: true, UseTargetEncoding: true, TargetEncoder: target()},
		Fuel:      CategoricalEncoder{UseLabelEncoding: true, UseTargetEncoding: true, TargetEncoder: target()},
		Manufacturer: GroupedEncoder{
			UseGrouping: true, UseLabelEncoding: true, UseTargetEncoding: true, TargetEncoder: target(),
		},
		PaintColor: GroupedEncoder{
			UseGrouping: true, UseLabelEncoding: true, UseTargetEncoding: true, TargetEncoder: target(),
		},
		State: StateEncoder{
			UseGrouping: true, UseTopTierFlag: true, UseLabelEncoding: true, UseTargetEncoding: true,
			TargetEncoder: target(),
		},
		Transmission: CategoricalEncoder{UseLabelEncoding: true, UseTargetEncoding: true, TargetEncoder: target()},
		Type: GroupedEncoder{
			UseGrouping: true, UseLabelEncoding: true, UseTargetEncoding: true, TargetEncoder: target(),
		},
		Year:              YearEncoder{Use1987Flag: true, Use1975Flag: true},
		PriceUpperBound:   DefaultPriceUpperBound,
		PriceLowerBound:   DefaultPriceLowerBound,
		RemoveOutliersVal: true,
	}
}
