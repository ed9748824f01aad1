package frame

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the storage type of a column
type Kind int

const (
	String Kind = iota
	Float
	Int
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Float:
		return "float"
	case Int:
		return "int"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is a named, typed sequence of values. Missing float values are stored as NaN.
type Column struct {
	Name string
	Kind Kind

	strings []string
	floats  []float64
	ints    []int
}

func NewStringColumn(name string, values []string) *Column {
	return &Column{Name: name, Kind: String, strings: values}
}

func NewFloatColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: Float, floats: values}
}

func NewIntColumn(name string, values []int) *Column {
	return &Column{Name: name, Kind: Int, ints: values}
}

func (c *Column) Len() int {
	switch c.Kind {
	case String:
		return len(c.strings)
	case Float:
		return len(c.floats)
	default:
		return len(c.ints)
	}
}

// Strings returns the values of a string column.
func (c *Column) Strings() ([]string, error) {
	if c.Kind != String {
		return nil, &SchemaError{Column: c.Name, Reason: fmt.Sprintf("expected string column, got %s", c.Kind)}
	}
	return c.strings, nil
}

// Floats returns the values of a numeric column as float64. Int columns are converted.
func (c *Column) Floats() ([]float64, error) {
	switch c.Kind {
	case Float:
		return c.floats, nil
	case Int:
		result := make([]float64, len(c.ints))
		for i, v := range c.ints {
			result[i] = float64(v)
		}
		return result, nil
	default:
		return nil, &SchemaError{Column: c.Name, Reason: fmt.Sprintf("expected numeric column, got %s", c.Kind)}
	}
}

// Ints returns the values of an int column.
func (c *Column) Ints() ([]int, error) {
	if c.Kind != Int {
		return nil, &SchemaError{Column: c.Name, Reason: fmt.Sprintf("expected int column, got %s", c.Kind)}
	}
	return c.ints, nil
}

// Format renders the value at row i for text output; missing floats render as an empty string.
func (c *Column) Format(i int) string {
	switch c.Kind {
	case String:
		return c.strings[i]
	case Float:
		if math.IsNaN(c.floats[i]) {
			return ""
		}
		return strconv.FormatFloat(c.floats[i], 'f', -1, 64)
	default:
		return strconv.Itoa(c.ints[i])
	}
}

func (c *Column) take(indices []int) *Column {
	result := &Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case String:
		result.strings = make([]string, len(indices))
		for i, idx := range indices {
			result.strings[i] = c.strings[idx]
		}
	case Float:
		result.floats = make([]float64, len(indices))
		for i, idx := range indices {
			result.floats[i] = c.floats[idx]
		}
	default:
		result.ints = make([]int, len(indices))
		for i, idx := range indices {
			result.ints[i] = c.ints[idx]
		}
	}
	return result
}
