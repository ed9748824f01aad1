// Package encoding implements the per-column encoders that turn raw listing attributes into
// numeric features.
//
// Every encoder is two-phase: an Encoder holds validated configuration and produces a Fitted
// value from training data, and only a Fitted value can transform. Fitted values never change
// after Fit, so one can be shared by the transforms of the train, validation and test splits.
package encoding

import (
	"golang.org/x/exp/rand"

	"carprep/pkg/config"
	"carprep/pkg/frame"
)

const (
	ConditionColumn    = "condition"
	CylindersColumn    = "cylinders"
	DriveColumn        = "drive"
	FuelColumn         = "fuel"
	ManufacturerColumn = "manufacturer"
	PaintColorColumn   = "paint_color"
	StateColumn        = "state"
	TransmissionColumn = "transmission"
	TypeColumn         = "type"
	YearColumn         = "year"
)

// Encoder learns the encoding of a single raw column
type Encoder interface {
	// Column is the name of the raw column consumed by the encoder.
	Column() string

	// Fit learns the encoding from the training values x and the row-aligned target y.
	Fit(x *frame.Column, y []float64) (Fitted, error)
}

// Fitted is the frozen state learned by an Encoder
type Fitted interface {
	// Transform replaces the raw column x by the derived feature columns. Row order and count
	// are preserved. src feeds the target encoding noise.
	Transform(x *frame.Column, src rand.Source) (*frame.Table, error)
}

// chain describes the grouping, label encoding and target encoding steps of a categorical
// encoder. Each step is optional.
type chain struct {
	column string

	useGrouping    bool
	groupThreshold int
	otherLabel     string

	useLabelEncoding bool

	// target is nil when target encoding is disabled
	target *TargetEncoder
}

func newChain(column string, useLabelEncoding, useTargetEncoding bool, te *config.TargetEncoder) (chain, error) {
	if err := config.RequireTargetEncoder(column, useTargetEncoding, te); err != nil {
		return chain{}, err
	}
	c := chain{column: column, useLabelEncoding: useLabelEncoding}
	if useTargetEncoding {
		c.target = NewTargetEncoder(*te)
	}
	return c, nil
}

func (c chain) withGrouping(use bool, threshold int, otherLabel string) chain {
	c.useGrouping = use
	c.groupThreshold = threshold
	c.otherLabel = otherLabel
	return c
}

// FittedChain is the learned state of a chain
type FittedChain struct {
	Column string

	UseGrouping bool
	OtherLabel  string
	// Groups holds the categories kept as-is; all others collapse to OtherLabel.
	Groups Set

	// Vocabulary is nil when label encoding is disabled
	Vocabulary *NameMap

	// Target is nil when target encoding is disabled
	Target *FittedTargetEncoder
}

func (c chain) fit(values []string, y []float64) (*FittedChain, error) {
	fitted := &FittedChain{Column: c.column, UseGrouping: c.useGrouping, OtherLabel: c.otherLabel}

	if c.useGrouping {
		counts := map[string]int{}
		for _, v := range values {
			counts[v]++
		}
		fitted.Groups = Set{}
		for v, count := range counts {
			if count >= c.groupThreshold {
				fitted.Groups[v] = true
			}
		}
		values = fitted.group(values)
	}

	if c.useLabelEncoding {
		fitted.Vocabulary = NewVocabulary(values)
	}

	if c.target != nil {
		te, err := c.target.Fit(values, y)
		if err != nil {
			return nil, err
		}
		fitted.Target = te
	}
	return fitted, nil
}

func (f *FittedChain) group(values []string) []string {
	if !f.UseGrouping {
		return values
	}
	grouped := make([]string, len(values))
	for i, v := range values {
		if f.Groups.Contains(v) {
			grouped[i] = v
		} else {
			grouped[i] = f.OtherLabel
		}
	}
	return grouped
}

// encode applies grouping, label encoding and target encoding to raw values and returns the
// `<column>_label` and `<column>_te` columns that are enabled.
func (f *FittedChain) encode(values []string, src rand.Source) ([]*frame.Column, error) {
	values = f.group(values)

	var columns []*frame.Column
	if f.Vocabulary != nil {
		labels := make([]int, len(values))
		for i, v := range values {
			index, ok := f.Vocabulary.ContainsName(v)
			if !ok {
				return nil, &UnseenCategoryError{Column: f.Column, Value: v}
			}
			labels[i] = index
		}
		columns = append(columns, frame.NewIntColumn(f.Column+"_label", labels))
	}

	if f.Target != nil {
		encoded, err := f.Target.Transform(values, src)
		if err != nil {
			return nil, err
		}
		columns = append(columns, frame.NewFloatColumn(f.Column+"_te", encoded))
	}
	return columns, nil
}

func fitInput(x *frame.Column, y []float64) ([]string, error) {
	values, err := x.Strings()
	if err != nil {
		return nil, err
	}
	if len(values) != len(y) {
		return nil, &LengthMismatchError{Column: x.Name, Rows: len(values), Targets: len(y)}
	}
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}
	return values, nil
}

func flagColumn(name string, values []string, members Set) *frame.Column {
	flags := make([]int, len(values))
	for i, v := range values {
		if members.Contains(v) {
			flags[i] = 1
		}
	}
	return frame.NewIntColumn(name, flags)
}
