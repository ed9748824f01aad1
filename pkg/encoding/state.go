package encoding

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/exp/rand"

	"carprep/pkg/config"
	"carprep/pkg/frame"
)

// TopTierStates is the number of states flagged by is_top_10_state
const TopTierStates = 10

type StateEncoder struct {
	chain          chain
	useTopTierFlag bool
}

func NewStateEncoder(cfg config.StateEncoder) (*StateEncoder, error) {
	c, err := newChain(StateColumn, cfg.UseLabelEncoding, cfg.UseTargetEncoding, cfg.TargetEncoder)
	if err != nil {
		return nil, err
	}
	return &StateEncoder{
		chain:          c.withGrouping(cfg.UseGrouping, StateGroupThreshold, "other_states"),
		useTopTierFlag: cfg.UseTopTierFlag,
	}, nil
}

func (e *StateEncoder) Column() string {
	return StateColumn
}

func (e *StateEncoder) Fit(x *frame.Column, y []float64) (Fitted, error) {
	values, err := fitInput(x, y)
	if err != nil {
		return nil, err
	}
	fitted, err := e.chain.fit(values, y)
	if err != nil {
		return nil, err
	}

	result := &FittedState{FittedChain: *fitted, UseTopTierFlag: e.useTopTierFlag}
	if e.useTopTierFlag {
		result.TopStates, err = topStatesByMedian(values, y, TopTierStates)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// topStatesByMedian ranks raw states by their median target, highest first, and keeps n of
// them. Ties are broken by state name.
func topStatesByMedian(states []string, y []float64, n int) (Set, error) {
	byState := map[string]stats.Float64Data{}
	for i, state := range states {
		if math.IsNaN(y[i]) {
			continue
		}
		byState[state] = append(byState[state], y[i])
	}

	type ranked struct {
		state  string
		median float64
	}
	ranking := make([]ranked, 0, len(byState))
	for state, prices := range byState {
		median, err := stats.Median(prices)
		if err != nil {
			return nil, err
		}
		ranking = append(ranking, ranked{state: state, median: median})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].median != ranking[j].median {
			return ranking[i].median > ranking[j].median
		}
		return ranking[i].state < ranking[j].state
	})

	top := Set{}
	for i := 0; i < len(ranking) && i < n; i++ {
		top[ranking[i].state] = true
	}
	return top, nil
}

type FittedState struct {
	FittedChain

	UseTopTierFlag bool
	TopStates      Set
}

// Transform outputs is_top_10_state, computed on the raw state, followed by the label and
// target encodings of the grouped state.
func (f *FittedState) Transform(x *frame.Column, src rand.Source) (*frame.Table, error) {
	values, err := x.Strings()
	if err != nil {
		return nil, err
	}

	var columns []*frame.Column
	if f.UseTopTierFlag {
		columns = append(columns, flagColumn("is_top_10_state", values, f.TopStates))
	}
	encoded, err := f.encode(values, src)
	if err != nil {
		return nil, err
	}
	return frame.NewTable(append(columns, encoded...)...)
}
