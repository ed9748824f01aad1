package encoding

import (
	"math"

	"golang.org/x/exp/rand"

	"carprep/pkg/config"
	"carprep/pkg/frame"
)

var conditionRank = map[string]float64{
	"salvage":   0,
	"fair":      1,
	"good":      2,
	"excellent": 3,
	"like new":  4,
	"new":       5,
}

// ConditionEncoder maps the condition to its ordinal rank and optionally target-encodes it
type ConditionEncoder struct {
	chain chain
}

func NewConditionEncoder(cfg config.ConditionEncoder) (*ConditionEncoder, error) {
	c, err := newChain(ConditionColumn, false, cfg.UseTargetEncoding, cfg.TargetEncoder)
	if err != nil {
		return nil, err
	}
	return &ConditionEncoder{chain: c}, nil
}

func (e *ConditionEncoder) Column() string {
	return ConditionColumn
}

func (e *ConditionEncoder) Fit(x *frame.Column, y []float64) (Fitted, error) {
	values, err := fitInput(x, y)
	if err != nil {
		return nil, err
	}
	fitted, err := e.chain.fit(values, y)
	if err != nil {
		return nil, err
	}
	return &FittedCondition{FittedChain: *fitted}, nil
}

type FittedCondition struct {
	FittedChain
}

// Transform outputs condition_numerical (NaN for unknown conditions) and condition_te.
func (f *FittedCondition) Transform(x *frame.Column, src rand.Source) (*frame.Table, error) {
	values, err := x.Strings()
	if err != nil {
		return nil, err
	}

	numerical := make([]float64, len(values))
	for i, v := range values {
		rank, ok := conditionRank[v]
		if !ok {
			rank = math.NaN()
		}
		numerical[i] = rank
	}

	encoded, err := f.encode(values, src)
	if err != nil {
		return nil, err
	}
	return frame.NewTable(append([]*frame.Column{frame.NewFloatColumn("condition_numerical", numerical)}, encoded...)...)
}
