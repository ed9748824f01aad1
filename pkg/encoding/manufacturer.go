package encoding

import (
	"golang.org/x/exp/rand"

	"carprep/pkg/config"
	"carprep/pkg/frame"
)

var (
	premiumManufacturers    = NewSet("ferrari", "tesla", "ram")
	overpricedManufacturers = NewSet("porsche", "jaguar", "ford", "chevrolet")
)

type ManufacturerEncoder struct {
	chain chain
}

func NewManufacturerEncoder(cfg config.GroupedEncoder) (*ManufacturerEncoder, error) {
	c, err := newChain(ManufacturerColumn, cfg.UseLabelEncoding, cfg.UseTargetEncoding, cfg.TargetEncoder)
	if err != nil {
		return nil, err
	}
	return &ManufacturerEncoder{
		chain: c.withGrouping(cfg.UseGrouping, ManufacturerGroupThreshold, "other_manufacturers"),
	}, nil
}

func (e *ManufacturerEncoder) Column() string {
	return ManufacturerColumn
}

func (e *ManufacturerEncoder) Fit(x *frame.Column, y []float64) (Fitted, error) {
	values, err := fitInput(x, y)
	if err != nil {
		return nil, err
	}
	fitted, err := e.chain.fit(values, y)
	if err != nil {
		return nil, err
	}
	return &FittedManufacturer{FittedChain: *fitted}, nil
}

type FittedManufacturer struct {
	FittedChain
}

// Transform outputs is_premium_manufacturer and is_potentially_overpriced_manufacturer,
// computed on the raw manufacturer, followed by the label and target encodings of the
// grouped manufacturer.
func (f *FittedManufacturer) Transform(x *frame.Column, src rand.Source) (*frame.Table, error) {
	values, err := x.Strings()
	if err != nil {
		return nil, err
	}

	columns := []*frame.Column{
		flagColumn("is_premium_manufacturer", values, premiumManufacturers),
		flagColumn("is_potentially_overpriced_manufacturer", values, overpricedManufacturers),
	}
	encoded, err := f.encode(values, src)
	if err != nil {
		return nil, err
	}
	return frame.NewTable(append(columns, encoded...)...)
}
