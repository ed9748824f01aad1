package encoding

import (
	"golang.org/x/exp/rand"

	"carprep/pkg/config"
	"carprep/pkg/frame"
)

// Grouping thresholds: categories seen fewer times than this in training collapse into the
// variant's "other" bucket.
const (
	ManufacturerGroupThreshold = 200
	StateGroupThreshold        = 300
	PaintColorGroupThreshold   = 500
	TypeGroupThreshold         = 500
)

// CategoricalEncoder label-encodes and target-encodes a plain categorical column, with
// optional rare-category grouping. It backs the drive, fuel, transmission, paint color and
// type encoders.
type CategoricalEncoder struct {
	chain chain
}

func newCategorical(column string, cfg config.CategoricalEncoder) (*CategoricalEncoder, error) {
	c, err := newChain(column, cfg.UseLabelEncoding, cfg.UseTargetEncoding, cfg.TargetEncoder)
	if err != nil {
		return nil, err
	}
	return &CategoricalEncoder{chain: c}, nil
}

func newGrouped(column string, threshold int, otherLabel string, cfg config.GroupedEncoder) (*CategoricalEncoder, error) {
	c, err := newChain(column, cfg.UseLabelEncoding, cfg.UseTargetEncoding, cfg.TargetEncoder)
	if err != nil {
		return nil, err
	}
	return &CategoricalEncoder{chain: c.withGrouping(cfg.UseGrouping, threshold, otherLabel)}, nil
}

func NewDriveEncoder(cfg config.CategoricalEncoder) (*CategoricalEncoder, error) {
	return newCategorical(DriveColumn, cfg)
}

func NewFuelEncoder(cfg config.CategoricalEncoder) (*CategoricalEncoder, error) {
	return newCategorical(FuelColumn, cfg)
}

func NewTransmissionEncoder(cfg config.CategoricalEncoder) (*CategoricalEncoder, error) {
	return newCategorical(TransmissionColumn, cfg)
}

func NewPaintColorEncoder(cfg config.GroupedEncoder) (*CategoricalEncoder, error) {
	return newGrouped(PaintColorColumn, PaintColorGroupThreshold, "other_colors", cfg)
}

func NewTypeEncoder(cfg config.GroupedEncoder) (*CategoricalEncoder, error) {
	return newGrouped(TypeColumn, TypeGroupThreshold, "other_types", cfg)
}

func (e *CategoricalEncoder) Column() string {
	return e.chain.column
}

func (e *CategoricalEncoder) Fit(x *frame.Column, y []float64) (Fitted, error) {
	values, err := fitInput(x, y)
	if err != nil {
		return nil, err
	}
	fitted, err := e.chain.fit(values, y)
	if err != nil {
		return nil, err
	}
	return &FittedCategorical{FittedChain: *fitted}, nil
}

type FittedCategorical struct {
	FittedChain
}

// Transform outputs `<column>_label` and `<column>_te`, whichever are enabled.
func (f *FittedCategorical) Transform(x *frame.Column, src rand.Source) (*frame.Table, error) {
	values, err := x.Strings()
	if err != nil {
		return nil, err
	}
	encoded, err := f.encode(values, src)
	if err != nil {
		return nil, err
	}
	return frame.NewTable(encoded...)
}
