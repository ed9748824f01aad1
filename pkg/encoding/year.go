package encoding

import (
	"golang.org/x/exp/rand"

	"carprep/pkg/config"
	"carprep/pkg/frame"
)

// YearEncoder derives model-year threshold flags. It learns nothing from the training data.
type YearEncoder struct {
	config config.YearEncoder
}

func NewYearEncoder(cfg config.YearEncoder) *YearEncoder {
	return &YearEncoder{config: cfg}
}

func (e *YearEncoder) Column() string {
	return YearColumn
}

func (e *YearEncoder) Fit(x *frame.Column, _ []float64) (Fitted, error) {
	if _, err := x.Floats(); err != nil {
		return nil, err
	}
	return &FittedYear{Use1987Flag: e.config.Use1987Flag, Use1975Flag: e.config.Use1975Flag}, nil
}

type FittedYear struct {
	Use1987Flag bool
	Use1975Flag bool
}

// Transform keeps the numeric year and appends is_1987_or_later and is_1975_or_later.
// A missing year sets neither flag.
func (f *FittedYear) Transform(x *frame.Column, _ rand.Source) (*frame.Table, error) {
	years, err := x.Floats()
	if err != nil {
		return nil, err
	}

	columns := []*frame.Column{frame.NewFloatColumn(YearColumn, years)}
	if f.Use1987Flag {
		columns = append(columns, thresholdColumn("is_1987_or_later", years, 1987))
	}
	if f.Use1975Flag {
		columns = append(columns, thresholdColumn("is_1975_or_later", years, 1975))
	}
	return frame.NewTable(columns...)
}

func thresholdColumn(name string, years []float64, threshold float64) *frame.Column {
	flags := make([]int, len(years))
	for i, year := range years {
		// NaN compares false
		if year >= threshold {
			flags[i] = 1
		}
	}
	return frame.NewIntColumn(name, flags)
}
