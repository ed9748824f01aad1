package io

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"carprep/pkg/frame"
)

// LoadTable reads a CSV file into a table of string columns, keeping the header order. Rows that
// are malformed or have the wrong number of fields are skipped and reported as DataErrors.
func LoadTable(path string) (*frame.Table, []DataError, error) {
	table, _, dataErrors, err := loadTable(path)
	return table, dataErrors, err
}

// loadTable is LoadTable that also returns the file line of every kept row.
func loadTable(path string) (*frame.Table, []int, []DataError, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()

	header, records, dataErrors, err := readRecords(inputFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	lines := make([]int, len(records))
	for i, r := range records {
		lines[i] = r.line
	}
	columns := make([]*frame.Column, len(header))
	for j, name := range header {
		values := make([]string, len(records))
		for i, r := range records {
			values[i] = r.fields[j]
		}
		columns[j] = frame.NewStringColumn(name, values)
	}
	table, err := frame.NewTable(columns...)
	if err != nil {
		return nil, nil, nil, err
	}
	return table, lines, dataErrors, nil
}

// WriteTable writes a table as CSV with a header line. Missing floats are written as empty cells.
func WriteTable(t *frame.Table, writer io.Writer) error {
	out := gocsv.DefaultCSVWriter(writer)
	if err := out.Write(t.Names()); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	columns := t.Columns()
	record := make([]string, len(columns))
	for i := 0; i < t.Rows(); i++ {
		for j, c := range columns {
			record[j] = c.Format(i)
		}
		if err := out.Write(record); err != nil {
			return fmt.Errorf("error writing row %d: %w", i, err)
		}
	}
	out.Flush()
	return out.Error()
}

// SaveTable writes a table to a CSV file, replacing any existing file.
func SaveTable(t *frame.Table, path string) error {
	outputFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := WriteTable(t, outputFile); err != nil {
		outputFile.Close()
		return err
	}
	return outputFile.Close()
}

// ParseFloats parses the values of a string column. Empty cells parse to NaN; cells that are not
// numbers are reported as DataErrors, with Line counting the header as line 1, and parse to NaN.
func ParseFloats(c *frame.Column) ([]float64, []DataError, error) {
	return parseFloats(c, nil)
}

// parseFloats reports row i at lines[i], or at i+2 when lines is nil.
func parseFloats(c *frame.Column, lines []int) ([]float64, []DataError, error) {
	values, err := c.Strings()
	if err != nil {
		return nil, nil, err
	}

	var errors []DataError
	result := make([]float64, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			result[i] = math.NaN()
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			line := i + 2
			if lines != nil {
				line = lines[i]
			}
			errors = append(errors, DataError{
				Line:  line,
				Error: fmt.Sprintf("error parsing %s: %s", c.Name, err),
			})
			parsed = math.NaN()
		}
		result[i] = parsed
	}
	return result, errors, nil
}

// LoadPredictions reads the true and predicted values from two columns of a CSV file. Rows where
// either value is missing or malformed, and rows that cannot be read, are skipped. Malformed
// values and unreadable rows are reported as DataErrors.
func LoadPredictions(path, trueColumn, predictedColumn string) ([]float64, []float64, []DataError, error) {
	table, lines, errors, err := loadTable(path)
	if err != nil {
		return nil, nil, nil, err
	}

	parse := func(name string) ([]float64, error) {
		c, err := table.Column(name)
		if err != nil {
			return nil, err
		}
		values, dataErrors, err := parseFloats(c, lines)
		errors = append(errors, dataErrors...)
		return values, err
	}
	yTrue, err := parse(trueColumn)
	if err != nil {
		return nil, nil, nil, err
	}
	yPred, err := parse(predictedColumn)
	if err != nil {
		return nil, nil, nil, err
	}

	var keptTrue, keptPred []float64
	for i := range yTrue {
		if math.IsNaN(yTrue[i]) || math.IsNaN(yPred[i]) {
			continue
		}
		keptTrue = append(keptTrue, yTrue[i])
		keptPred = append(keptPred, yPred[i])
	}
	return keptTrue, keptPred, errors, nil
}
