package preprocess

import (
	"fmt"

	"carprep/pkg/config"
	"carprep/pkg/encoding"
)

// State is the serializable form of a fitted Preprocessor
type State struct {
	Config  config.Preprocessor
	Columns []string
	Fitted  []encoding.Fitted
}

// State returns the configuration and fitted encoders so that a later run can transform new
// data without refitting.
func (p *Preprocessor) State() (*State, error) {
	if p.fitted == nil {
		return nil, ErrNotFitted
	}
	return &State{
		Config:  p.config,
		Columns: p.Columns(),
		Fitted:  append([]encoding.Fitted(nil), p.fitted...),
	}, nil
}

// Restore rebuilds a fitted Preprocessor from a saved State.
func Restore(state *State) (*Preprocessor, error) {
	p, err := New(state.Config)
	if err != nil {
		return nil, err
	}

	columns := p.Columns()
	if len(state.Fitted) != len(columns) || len(state.Columns) != len(columns) {
		return nil, fmt.Errorf("saved state holds %d fitted encoders, expected %d", len(state.Fitted), len(columns))
	}
	for i, column := range columns {
		if state.Columns[i] != column {
			return nil, fmt.Errorf("saved state encoder %d is %q, expected %q", i, state.Columns[i], column)
		}
		if state.Fitted[i] == nil {
			return nil, fmt.Errorf("saved state is missing the %s encoder", column)
		}
	}

	p.fitted = append([]encoding.Fitted(nil), state.Fitted...)
	return p, nil
}
