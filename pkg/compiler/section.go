package compiler

import (
	"fmt"

	"github.com/minhkhoavo/xlsxreport/pkg/table"
	"github.com/minhkhoavo/xlsxreport/pkg/template"
)

const (
	// BorderWeight is the border style applied to section edges, 2 marks a
	// thick line in xlsx border notation.
	BorderWeight = 2

	// DefaultColumnWidth is the pixel width used for columns without an
	// explicit width.
	DefaultColumnWidth float64 = 64

	// MissingValueSymbol replaces missing cells in compiled section data.
	MissingValueSymbol = ""

	// trimChars are stripped from derived names such as comparison group
	// labels and tag sample headers.
	trimChars = " ."
)

// DefaultFormat is used for columns that resolve to no named format.
var DefaultFormat = template.Format{"num_format": "@"}

// RemainingColumnFormat styles the synthetic section holding columns not
// claimed by any template section.
var RemainingColumnFormat = template.Format{"align": "left", "num_format": "0"}

// CompiledSection is a fully resolved table section, ready to be written.
// The data table contains no missing values and no duplicate columns, and
// each of its columns has exactly one entry in each per-column mapping.
type CompiledSection struct {
	Data                     *table.Table
	ColumnFormats            map[string]template.Format
	ColumnConditionalFormats map[string]template.Format
	ColumnWidths             map[string]float64
	Headers                  map[string]string
	HeaderFormats            map[string]template.Format
	Supheader                string
	SupheaderFormat          template.Format
	SectionConditionalFormat template.Format
	HideSection              bool
}

// newCompiledSection validates the section invariants and fills default
// entries for columns missing from the per-column mappings. Invariant
// violations indicate a compiler bug and are returned as errors rather than
// propagated to the writer.
func newCompiledSection(section CompiledSection) (*CompiledSection, error) {
	for _, name := range section.Data.Columns() {
		values, err := section.Data.Column(name)
		if err != nil {
			return nil, err
		}
		for _, value := range values {
			if table.IsMissing(value) {
				return nil, fmt.Errorf(
					"compiled section: column %q contains missing values", name,
				)
			}
		}
	}

	if section.ColumnFormats == nil {
		section.ColumnFormats = map[string]template.Format{}
	}
	if section.ColumnConditionalFormats == nil {
		section.ColumnConditionalFormats = map[string]template.Format{}
	}
	if section.ColumnWidths == nil {
		section.ColumnWidths = map[string]float64{}
	}
	if section.Headers == nil {
		section.Headers = map[string]string{}
	}
	if section.HeaderFormats == nil {
		section.HeaderFormats = map[string]template.Format{}
	}
	if section.SupheaderFormat == nil {
		section.SupheaderFormat = template.Format{}
	}
	if section.SectionConditionalFormat == nil {
		section.SectionConditionalFormat = template.Format{}
	}

	for _, name := range section.Data.Columns() {
		if _, ok := section.ColumnFormats[name]; !ok {
			section.ColumnFormats[name] = template.Format{}
		}
		if _, ok := section.ColumnConditionalFormats[name]; !ok {
			section.ColumnConditionalFormats[name] = template.Format{}
		}
		if _, ok := section.ColumnWidths[name]; !ok {
			section.ColumnWidths[name] = DefaultColumnWidth
		}
		if _, ok := section.Headers[name]; !ok {
			section.Headers[name] = name
		}
		if _, ok := section.HeaderFormats[name]; !ok {
			section.HeaderFormats[name] = template.Format{}
		}
	}
	return &section, nil
}

// Columns returns the ordered column names of the section data.
func (s *CompiledSection) Columns() []string {
	return s.Data.Columns()
}

// IsEmpty reports whether the section holds no data columns.
func (s *CompiledSection) IsEmpty() bool {
	return s.Data.NumColumns() == 0
}

// RemoveColumns removes the given columns from the section data and from
// all per-column mappings as one unit, keeping the section consistent.
func (s *CompiledSection) RemoveColumns(columns []string) error {
	remove := map[string]bool{}
	for _, name := range columns {
		remove[name] = true
	}
	var keep []string
	for _, name := range s.Data.Columns() {
		if !remove[name] {
			keep = append(keep, name)
		}
	}
	data, err := s.Data.Select(keep)
	if err != nil {
		return err
	}
	s.Data = data
	for name := range remove {
		delete(s.ColumnFormats, name)
		delete(s.ColumnConditionalFormats, name)
		delete(s.ColumnWidths, name)
		delete(s.Headers, name)
		delete(s.HeaderFormats, name)
	}
	return nil
}
