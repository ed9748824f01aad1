// Package preprocess turns raw listing tables into model-ready feature tables.
//
// A Preprocessor filters price outliers, fits every column encoder on the training split only
// and applies the same fitted encoders to the train, validation and test splits, so the three
// outputs share one schema.
package preprocess

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"carprep/pkg/config"
	"carprep/pkg/encoding"
	"carprep/pkg/frame"
)

const (
	PriceColumn    = "price"
	OdometerColumn = "odometer"
)

// ErrNotFitted is returned by Transform when Fit has not completed.
var ErrNotFitted = errors.New("preprocessor has not been fit")

type Stage string

const (
	StageFit       Stage = "fit"
	StageTransform Stage = "transform"
)

// StageError identifies the encoder and stage at which a run failed
type StageError struct {
	Encoder string
	Stage   Stage
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s encoder failed to %s: %s", e.Encoder, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Preprocessor struct {
	config   config.Preprocessor
	encoders []encoding.Encoder
	fitted   []encoding.Fitted
}

// New validates cfg and builds the encoders in their fixed output order.
func New(cfg config.Preprocessor) (*Preprocessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var encoders []encoding.Encoder
	add := func(e encoding.Encoder, err error) error {
		if err != nil {
			return err
		}
		encoders = append(encoders, e)
		return nil
	}

	condition, err := encoding.NewConditionEncoder(cfg.Condition)
	if err := add(condition, err); err != nil {
		return nil, err
	}
	cylinders, err := encoding.NewCylindersEncoder(cfg.Cylinders)
	if err := add(cylinders, err); err != nil {
		return nil, err
	}
	drive, err := encoding.NewDriveEncoder(cfg.Drive)
	if err := add(drive, err); err != nil {
		return nil, err
	}
	fuel, err := encoding.NewFuelEncoder(cfg.Fuel)
	if err := add(fuel, err); err != nil {
		return nil, err
	}
	manufacturer, err := encoding.NewManufacturerEncoder(cfg.Manufacturer)
	if err := add(manufacturer, err); err != nil {
		return nil, err
	}
	paintColor, err := encoding.NewPaintColorEncoder(cfg.PaintColor)
	if err := add(paintColor, err); err != nil {
		return nil, err
	}
	state, err := encoding.NewStateEncoder(cfg.State)
	if err := add(state, err); err != nil {
		return nil, err
	}
	transmission, err := encoding.NewTransmissionEncoder(cfg.Transmission)
	if err := add(transmission, err); err != nil {
		return nil, err
	}
	vehicleType, err := encoding.NewTypeEncoder(cfg.Type)
	if err := add(vehicleType, err); err != nil {
		return nil, err
	}
	if err := add(encoding.NewYearEncoder(cfg.Year), nil); err != nil {
		return nil, err
	}

	return &Preprocessor{config: cfg, encoders: encoders}, nil
}

// Columns returns the raw columns consumed by the encoders, in encoder order.
func (p *Preprocessor) Columns() []string {
	columns := make([]string, len(p.encoders))
	for i, e := range p.encoders {
		columns[i] = e.Column()
	}
	return columns
}

// RequiredColumns lists every column a raw input table must contain.
func (p *Preprocessor) RequiredColumns() []string {
	return append([]string{PriceColumn, OdometerColumn}, p.Columns()...)
}

// CheckSchema fails with a SchemaError when t lacks one of the RequiredColumns.
func (p *Preprocessor) CheckSchema(t *frame.Table) error {
	_, err := t.Select(p.RequiredColumns()...)
	return err
}

func (p *Preprocessor) Fitted() bool {
	return p.fitted != nil
}

// FilterOutliers keeps the rows whose price lies strictly between the configured bounds.
// Rows without a price are dropped.
func (p *Preprocessor) FilterOutliers(t *frame.Table) (*frame.Table, error) {
	prices, err := floatColumn(t, PriceColumn)
	if err != nil {
		return nil, err
	}
	lower, upper := p.config.PriceLowerBound, p.config.PriceUpperBound
	filtered := t.Filter(func(row int) bool {
		price := prices[row]
		return !math.IsNaN(price) && price > lower && price < upper
	})
	log.Debug().Int("Rows", t.Rows()).Int("Kept", filtered.Rows()).
		Float64("Lower", lower).Float64("Upper", upper).Msg("Filtered price outliers")
	return filtered, nil
}

// Fit fits every encoder on the training table. Encoders own disjoint state, so they are fit
// concurrently; Fit returns once all of them are done. Any failure discards the partial state.
// The encoder goroutines do not log.
func (p *Preprocessor) Fit(train *frame.Table) error {
	y, err := floatColumn(train, PriceColumn)
	if err != nil {
		return err
	}
	columns := make([]*frame.Column, len(p.encoders))
	for i, e := range p.encoders {
		if columns[i], err = train.Column(e.Column()); err != nil {
			return err
		}
	}

	fitted := make([]encoding.Fitted, len(p.encoders))
	var g errgroup.Group
	for i := range p.encoders {
		i := i
		g.Go(func() error {
			e := p.encoders[i]
			f, err := e.Fit(columns[i], y)
			if err != nil {
				return &StageError{Encoder: e.Column(), Stage: StageFit, Err: err}
			}
			fitted[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.fitted = nil
		return err
	}
	for _, e := range p.encoders {
		log.Debug().Str("Encoder", e.Column()).Msg("Fitted encoder")
	}

	p.fitted = fitted
	log.Info().Int("Rows", train.Rows()).Int("Encoders", len(fitted)).Msg("Fitted encoders")
	return nil
}

// Transform encodes a table with the fitted encoders. The output holds price and odometer
// followed by the columns of each encoder in encoder order.
func (p *Preprocessor) Transform(t *frame.Table, src rand.Source) (*frame.Table, error) {
	if p.fitted == nil {
		return nil, ErrNotFitted
	}

	passthrough, err := t.Select(PriceColumn, OdometerColumn)
	if err != nil {
		return nil, err
	}
	parts := []*frame.Table{passthrough}
	for i, e := range p.encoders {
		x, err := t.Column(e.Column())
		if err != nil {
			return nil, err
		}
		encoded, err := p.fitted[i].Transform(x, src)
		if err != nil {
			return nil, &StageError{Encoder: e.Column(), Stage: StageTransform, Err: err}
		}
		parts = append(parts, encoded)
	}
	return frame.HConcat(parts...)
}

// Splits holds the encoded train, validation and test tables
type Splits struct {
	Train *frame.Table
	Val   *frame.Table
	Test  *frame.Table
}

// Run checks that every split has the required columns, filters outliers from the training
// split (and the validation split when configured), fits the encoders on the filtered training
// split and transforms all three splits. The test split is never filtered. A split missing a
// column fails before anything is fit.
func (p *Preprocessor) Run(train, val, test *frame.Table, src rand.Source) (*Splits, error) {
	for _, split := range []struct {
		name  string
		input *frame.Table
	}{{"training", train}, {"validation", val}, {"test", test}} {
		if err := p.CheckSchema(split.input); err != nil {
			return nil, fmt.Errorf("error checking %s data: %w", split.name, err)
		}
	}

	train, err := p.FilterOutliers(train)
	if err != nil {
		return nil, fmt.Errorf("error filtering training data: %w", err)
	}
	if p.config.RemoveOutliersVal {
		if val, err = p.FilterOutliers(val); err != nil {
			return nil, fmt.Errorf("error filtering validation data: %w", err)
		}
	}

	if err := p.Fit(train); err != nil {
		return nil, fmt.Errorf("error fitting encoders: %w", err)
	}

	result := &Splits{}
	for _, split := range []struct {
		name  string
		input *frame.Table
		out   **frame.Table
	}{
		{"train", train, &result.Train},
		{"val", val, &result.Val},
		{"test", test, &result.Test},
	} {
		encoded, err := p.Transform(split.input, src)
		if err != nil {
			return nil, fmt.Errorf("error transforming %s data: %w", split.name, err)
		}
		*split.out = encoded
		log.Info().Str("Split", split.name).Int("Rows", encoded.Rows()).
			Int("Columns", len(encoded.Columns())).Msg("Transformed split")
	}
	return result, nil
}

func floatColumn(t *frame.Table, name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return c.Floats()
}
