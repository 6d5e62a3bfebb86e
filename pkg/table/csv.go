package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadCSV parses delimited text into a table. The first record is used as
// column names. Fields that parse as numbers are stored as float64, empty
// fields become missing values, everything else is kept as string.
func ReadCSV(r io.Reader, sep rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: input contains no header row")
	}

	header := records[0]
	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = Column{Name: name, Values: make([]any, 0, len(records)-1)}
	}
	for _, record := range records[1:] {
		for i := range header {
			var field string
			if i < len(record) {
				field = record[i]
			}
			columns[i].Values = append(columns[i].Values, parseField(field))
		}
	}
	return New(columns...)
}

// ReadCSVFile reads a delimited text file into a table.
func ReadCSVFile(path string, sep rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, sep)
}

func parseField(field string) any {
	if field == "" {
		return nil
	}
	if number, err := strconv.ParseFloat(field, 64); err == nil {
		return number
	}
	return field
}
