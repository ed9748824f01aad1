package io

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// record is one CSV row and the file line it starts on.
type record struct {
	line   int
	fields []string
}

// readRecords reads the header and rows of a CSV stream. Rows that are malformed, or whose
// field count differs from the header, are skipped and reported as DataErrors.
func readRecords(in io.Reader) ([]string, []record, []DataError, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	//First line is expected to be a header
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil, fmt.Errorf("error reading data header: %w", gocsv.ErrEmptyCSVFile)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error reading data header: %w", err)
	}

	var records []record
	var dataErrors []DataError
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			dataErrors = append(dataErrors, DataError{Line: parseErr.StartLine, Error: parseErr.Error()})
			continue
		}
		if err != nil {
			return nil, nil, nil, fmt.Errorf("error reading data: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(fields) != len(header) {
			fieldErr := &csv.ParseError{StartLine: line, Line: line, Column: 1, Err: csv.ErrFieldCount}
			dataErrors = append(dataErrors, DataError{
				Line:  line,
				Error: fmt.Sprintf("%s: got %d, expected %d", fieldErr, len(fields), len(header)),
			})
			continue
		}
		records = append(records, record{line: line, fields: fields})
	}
	return header, records, dataErrors, nil
}
