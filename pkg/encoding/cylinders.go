package encoding

import (
	"math"
	"regexp"
	"strconv"

	"golang.org/x/exp/rand"

	"carprep/pkg/config"
	"carprep/pkg/frame"
)

var digits = regexp.MustCompile(`\d+`)

// CylindersEncoder extracts the cylinder count from text such as "6 cylinders"
type CylindersEncoder struct {
	chain chain
}

func NewCylindersEncoder(cfg config.CylindersEncoder) (*CylindersEncoder, error) {
	c, err := newChain(CylindersColumn, false, cfg.UseTargetEncoding, cfg.TargetEncoder)
	if err != nil {
		return nil, err
	}
	return &CylindersEncoder{chain: c}, nil
}

func (e *CylindersEncoder) Column() string {
	return CylindersColumn
}

func (e *CylindersEncoder) Fit(x *frame.Column, y []float64) (Fitted, error) {
	values, err := fitInput(x, y)
	if err != nil {
		return nil, err
	}
	fitted, err := e.chain.fit(values, y)
	if err != nil {
		return nil, err
	}
	return &FittedCylinders{FittedChain: *fitted}, nil
}

type FittedCylinders struct {
	FittedChain
}

// ParseCylinders returns the first run of digits in text, or NaN when there is none.
func ParseCylinders(text string) float64 {
	match := digits.FindString(text)
	if match == "" {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}

// Transform outputs cylinders_numerical and cylinders_te. Target encoding uses the raw text.
func (f *FittedCylinders) Transform(x *frame.Column, src rand.Source) (*frame.Table, error) {
	values, err := x.Strings()
	if err != nil {
		return nil, err
	}

	numerical := make([]float64, len(values))
	for i, v := range values {
		numerical[i] = ParseCylinders(v)
	}

	encoded, err := f.encode(values, src)
	if err != nil {
		return nil, err
	}
	return frame.NewTable(append([]*frame.Column{frame.NewFloatColumn("cylinders_numerical", numerical)}, encoded...)...)
}
