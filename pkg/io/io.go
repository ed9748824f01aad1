package io

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"carprep/pkg/encoding"
	"carprep/pkg/frame"
)

type DataError struct {
	Line  int
	Error string
}

// NullFloat is a float64 CSV cell; an empty cell decodes to NaN.
type NullFloat float64

func (f *NullFloat) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*f = NullFloat(math.NaN())
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*f = NullFloat(parsed)
	return nil
}

func (f NullFloat) MarshalCSV() (string, error) {
	if math.IsNaN(float64(f)) {
		return "", nil
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 64), nil
}

// Listing is one raw used-car listing. Columns of the input file that are not listed here are
// ignored.
type Listing struct {
	Price        NullFloat `csv:"price"`
	Odometer     NullFloat `csv:"odometer"`
	Condition    string    `csv:"condition"`
	Cylinders    string    `csv:"cylinders"`
	Drive        string    `csv:"drive"`
	Fuel         string    `csv:"fuel"`
	Manufacturer string    `csv:"manufacturer"`
	PaintColor   string    `csv:"paint_color"`
	State        string    `csv:"state"`
	Transmission string    `csv:"transmission"`
	Type         string    `csv:"type"`
	Year         NullFloat `csv:"year"`
}

const (
	priceColumn    = "price"
	odometerColumn = "odometer"
)

// ListingColumns are the header names a listings file must provide.
var ListingColumns = []string{
	priceColumn, odometerColumn,
	encoding.ConditionColumn, encoding.CylindersColumn, encoding.DriveColumn, encoding.FuelColumn,
	encoding.ManufacturerColumn, encoding.PaintColorColumn, encoding.StateColumn,
	encoding.TransmissionColumn, encoding.TypeColumn, encoding.YearColumn,
}

// LoadListings reads a raw listings CSV into a table with one column per ListingColumns entry.
// Rows that are malformed, have the wrong number of fields or hold unparseable numeric cells are
// skipped and reported as DataErrors with their line in the file.
func LoadListings(path string) (*frame.Table, []DataError, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()

	header, records, dataErrors, err := readRecords(inputFile)
	if err != nil {
		return nil, nil, err
	}
	if err := checkHeader(header, ListingColumns); err != nil {
		return nil, nil, err
	}

	// Well-formed rows are decoded by gocsv from a rewritten copy of the file.
	var buffer bytes.Buffer
	out := gocsv.DefaultCSVWriter(&buffer)
	if err := out.Write(header); err != nil {
		return nil, nil, fmt.Errorf("error buffering listings: %w", err)
	}
	for _, r := range records {
		if err := out.Write(r.fields); err != nil {
			return nil, nil, fmt.Errorf("error buffering listings: %w", err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return nil, nil, fmt.Errorf("error buffering listings: %w", err)
	}

	badRows := map[int]bool{}
	handler := func(parseErr *csv.ParseError) bool {
		// gocsv numbers rows from 2, after the header
		row := parseErr.Line - 2
		if row < 0 || row >= len(records) {
			return false
		}
		located := *parseErr
		located.StartLine, located.Line = records[row].line, records[row].line
		dataErrors = append(dataErrors, DataError{Line: located.Line, Error: located.Error()})
		badRows[row] = true
		return true
	}

	var listings []Listing
	if err := gocsv.UnmarshalWithErrorHandler(&buffer, handler, &listings); err != nil {
		return nil, nil, fmt.Errorf("error reading listings: %w", err)
	}

	valid := listings[:0]
	for i, listing := range listings {
		if !badRows[i] {
			valid = append(valid, listing)
		}
	}

	table, err := ListingsTable(valid)
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(dataErrors, func(i, j int) bool { return dataErrors[i].Line < dataErrors[j].Line })
	return table, dataErrors, nil
}

// ListingsTable converts listings to a column table.
func ListingsTable(listings []Listing) (*frame.Table, error) {
	n := len(listings)
	price := make([]float64, n)
	odometer := make([]float64, n)
	year := make([]float64, n)
	text := map[string][]string{}
	for _, name := range ListingColumns {
		text[name] = make([]string, n)
	}

	for i, l := range listings {
		price[i] = float64(l.Price)
		odometer[i] = float64(l.Odometer)
		year[i] = float64(l.Year)
		text[encoding.ConditionColumn][i] = l.Condition
		text[encoding.CylindersColumn][i] = l.Cylinders
		text[encoding.DriveColumn][i] = l.Drive
		text[encoding.FuelColumn][i] = l.Fuel
		text[encoding.ManufacturerColumn][i] = l.Manufacturer
		text[encoding.PaintColorColumn][i] = l.PaintColor
		text[encoding.StateColumn][i] = l.State
		text[encoding.TransmissionColumn][i] = l.Transmission
		text[encoding.TypeColumn][i] = l.Type
	}

	columns := make([]*frame.Column, 0, len(ListingColumns))
	for _, name := range ListingColumns {
		switch name {
		case priceColumn:
			columns = append(columns, frame.NewFloatColumn(name, price))
		case odometerColumn:
			columns = append(columns, frame.NewFloatColumn(name, odometer))
		case encoding.YearColumn:
			columns = append(columns, frame.NewFloatColumn(name, year))
		default:
			columns = append(columns, frame.NewStringColumn(name, text[name]))
		}
	}
	return frame.NewTable(columns...)
}

func checkHeader(header, required []string) error {
	present := encoding.NewSet(header...)
	for _, name := range required {
		if !present.Contains(name) {
			return &frame.SchemaError{Column: name, Reason: "column not found in data header"}
		}
	}
	return nil
}
