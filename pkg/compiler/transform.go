package compiler

import (
	"fmt"
	"math"

	"github.com/minhkhoavo/xlsxreport/pkg/table"
)

// maxLogSpaceValue is the threshold of the "already log transformed"
// heuristic. Intensities reported by tandem mass spectrometry typically
// range from 1e3 to 1e12; log2 values above 64 would require raw
// intensities beyond 1e19, so a column whose finite values all stay at or
// below 64 is assumed to be in log space already.
const maxLogSpaceValue = 64

// ExtractData returns an independent copy of the selected table columns
// with every missing value replaced by the missing value symbol.
func ExtractData(t *table.Table, columns []string) (*table.Table, error) {
	data, err := t.Select(columns)
	if err != nil {
		return nil, err
	}
	return fillMissing(data)
}

// ExtractLog2Data returns an independent copy of the selected table columns
// with a log2 transform applied. Values at or below zero become missing,
// missing values are replaced by the missing value symbol afterwards. When
// evaluateTransform is set and the data already appears to be in log space
// the transform is skipped. Selecting a non-numeric column is an error
// since silently dropping a requested transform would produce misleading
// output.
func ExtractLog2Data(t *table.Table, columns []string, evaluateTransform bool) (*table.Table, error) {
	data, err := t.Select(columns)
	if err != nil {
		return nil, err
	}

	cells := make([][]any, 0, len(columns))
	for _, name := range data.Columns() {
		values, err := data.Column(name)
		if err != nil {
			return nil, err
		}
		for _, value := range values {
			if table.IsMissing(value) {
				continue
			}
			if _, ok := asNumber(value); !ok {
				return nil, fmt.Errorf(
					"cannot log2 transform non-numeric column %q", name,
				)
			}
		}
		cells = append(cells, values)
	}

	if evaluateTransform && inLogSpace(cells) {
		return fillMissing(data)
	}

	transformed := make([]table.Column, 0, len(columns))
	for i, name := range data.Columns() {
		values := cells[i]
		out := make([]any, len(values))
		for j, value := range values {
			if table.IsMissing(value) {
				continue
			}
			number, _ := asNumber(value)
			if number <= 0 {
				continue
			}
			out[j] = math.Log2(number)
		}
		transformed = append(transformed, table.Column{Name: name, Values: out})
	}
	data, err = table.New(transformed...)
	if err != nil {
		return nil, err
	}
	return fillMissing(data)
}

// inLogSpace reports whether all finite values are at or below the log
// space threshold.
func inLogSpace(cells [][]any) bool {
	for _, values := range cells {
		for _, value := range values {
			number, ok := asNumber(value)
			if !ok || math.IsNaN(number) || math.IsInf(number, 0) {
				continue
			}
			if number > maxLogSpaceValue {
				return false
			}
		}
	}
	return true
}

func fillMissing(t *table.Table) (*table.Table, error) {
	columns := make([]table.Column, 0, t.NumColumns())
	for _, name := range t.Columns() {
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		for i, value := range values {
			if table.IsMissing(value) {
				values[i] = MissingValueSymbol
			}
		}
		columns = append(columns, table.Column{Name: name, Values: values})
	}
	return table.New(columns...)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
