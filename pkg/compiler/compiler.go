// Package compiler turns a report template and a table into a list of
// fully resolved, ready-to-render compiled sections. Each template section
// is classified into one of four categories and dispatched to the matching
// section compiler, which combines column selection, data extraction and
// format resolution. The pipeline then optionally appends a section with
// all unclaimed columns, removes duplicate columns across sections and
// drops sections that ended up empty.
package compiler

import (
	"regexp"

	"github.com/minhkhoavo/xlsxreport/pkg/table"
	"github.com/minhkhoavo/xlsxreport/pkg/template"
)

// Compiler compiles the sections of one report template against tables.
type Compiler struct {
	formats            template.FormatMap
	conditionalFormats template.FormatMap
	settings           template.Settings
}

// New creates a compiler for the given template.
func New(t *template.Template) *Compiler {
	return &Compiler{
		formats:            t.Formats,
		conditionalFormats: t.ConditionalFormats,
		settings:           t.Settings,
	}
}

// CompileSections compiles all template sections in definition order.
// Sections of unknown category are skipped, comparison sections fan out
// into one compiled section per detected comparison group.
func CompileSections(t *template.Template, tbl *table.Table) ([]*CompiledSection, error) {
	c := New(t)
	var compiled []*CompiledSection
	for _, named := range t.Sections {
		sections, err := c.Compile(named.Section, tbl)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, sections...)
	}
	return compiled, nil
}

// PrepareCompiledSections compiles all template sections and applies the
// pipeline post-processing: appending the remaining columns section when
// configured, pruning duplicate columns when configured, and dropping
// empty sections.
func PrepareCompiledSections(t *template.Template, tbl *table.Table) ([]*CompiledSection, error) {
	compiled, err := CompileSections(t, tbl)
	if err != nil {
		return nil, err
	}
	if t.Settings.AppendRemainingColumns {
		remaining, err := New(t).compileRemainingColumns(compiled, tbl)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, remaining)
	}
	if t.Settings.RemoveDuplicateColumns {
		if err := PruneCompiledSections(compiled); err != nil {
			return nil, err
		}
	}
	return removeEmptySections(compiled), nil
}

// Compile dispatches a section to the compiler logic of its category. The
// returned slice holds one element for standard and tag sections, and one
// element per discovered comparison group for comparison sections.
func (c *Compiler) Compile(section template.Section, tbl *table.Table) ([]*CompiledSection, error) {
	switch s := section.(type) {
	case template.StandardSection:
		compiled, err := c.compileStandard(s, tbl, DefaultFormat)
		if err != nil {
			return nil, err
		}
		return []*CompiledSection{compiled}, nil
	case template.TagSection:
		compiled, err := c.compileTag(s, tbl)
		if err != nil {
			return nil, err
		}
		return []*CompiledSection{compiled}, nil
	case template.LabelTagSection:
		compiled, err := c.compileLabelTag(s, tbl)
		if err != nil {
			return nil, err
		}
		return []*CompiledSection{compiled}, nil
	case template.ComparisonSection:
		return c.compileComparison(s, tbl)
	}
	return nil, nil
}

func (c *Compiler) compileStandard(
	section template.StandardSection, tbl *table.Table, defaultFormat template.Format,
) (*CompiledSection, error) {
	columns := SelectStandardColumns(tbl.Columns(), section.Columns)
	data, err := ExtractData(tbl, columns)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(columns))
	for _, name := range columns {
		headers[name] = name
	}

	return newCompiledSection(CompiledSection{
		Data:                     data,
		ColumnFormats:            ResolveColumnFormats(columns, section.SectionStyle, c.formats, defaultFormat),
		ColumnConditionalFormats: ResolveColumnConditionalFormats(columns, section.SectionStyle, c.conditionalFormats),
		ColumnWidths:             ResolveColumnWidths(columns, section.SectionStyle, c.settings.ColumnWidth),
		Headers:                  headers,
		HeaderFormats:            ResolveHeaderFormats(columns, section.SectionStyle, c.formats),
		Supheader:                section.Supheader,
		SupheaderFormat:          ResolveSupheaderFormat(section.SectionStyle, c.formats),
		SectionConditionalFormat: ResolveSectionConditionalFormat(section.SectionStyle, c.conditionalFormats),
	})
}

func (c *Compiler) compileTag(section template.TagSection, tbl *table.Table) (*CompiledSection, error) {
	var columns []string
	var pattern *regexp.Regexp
	if c.settings.SampleExtractionTag != "" {
		columns = SelectTagSampleColumns(tbl.Columns(), section.Tag, c.settings.SampleExtractionTag)
	} else {
		var err error
		columns, err = SelectTagColumns(tbl.Columns(), section.Tag)
		if err != nil {
			return nil, err
		}
		pattern = regexp.MustCompile(section.Tag)
	}

	headers := resolveTagHeaders(
		columns, pattern, section.Tag, section.RemoveTag, section.Log2, c.settings.Log2Tag,
	)
	supheader := resolveTagSupheader(section.Supheader, section.Log2, c.settings.Log2Tag)
	return c.compileTagData(section.SectionStyle, columns, section.Log2, headers, supheader, tbl)
}

func (c *Compiler) compileLabelTag(section template.LabelTagSection, tbl *table.Table) (*CompiledSection, error) {
	columns, err := SelectLabelTagColumns(tbl.Columns(), section.Tag, section.Labels)
	if err != nil {
		return nil, err
	}
	pattern := regexp.MustCompile(section.Tag)

	headers := resolveTagHeaders(
		columns, pattern, section.Tag, section.RemoveTag, section.Log2, c.settings.Log2Tag,
	)
	supheader := resolveTagSupheader(section.Supheader, section.Log2, c.settings.Log2Tag)
	return c.compileTagData(section.SectionStyle, columns, section.Log2, headers, supheader, tbl)
}

func (c *Compiler) compileTagData(
	style template.SectionStyle,
	columns []string,
	log2 bool,
	headers map[string]string,
	supheader string,
	tbl *table.Table,
) (*CompiledSection, error) {
	var data *table.Table
	var err error
	if log2 {
		data, err = ExtractLog2Data(tbl, columns, c.settings.EvaluateLog2Transformation)
	} else {
		data, err = ExtractData(tbl, columns)
	}
	if err != nil {
		return nil, err
	}

	return newCompiledSection(CompiledSection{
		Data:                     data,
		ColumnFormats:            ResolveColumnFormats(columns, style, c.formats, DefaultFormat),
		ColumnConditionalFormats: ResolveColumnConditionalFormats(columns, style, c.conditionalFormats),
		ColumnWidths:             ResolveColumnWidths(columns, style, c.settings.ColumnWidth),
		Headers:                  headers,
		HeaderFormats:            ResolveHeaderFormats(columns, style, c.formats),
		Supheader:                supheader,
		SupheaderFormat:          ResolveSupheaderFormat(style, c.formats),
		SectionConditionalFormat: ResolveSectionConditionalFormat(style, c.conditionalFormats),
	})
}

// compileComparison discovers the comparison groups present in the table
// and compiles one section per group by delegating to the standard
// compiler with a derived section, then overriding the headers with the
// comparison header rules.
func (c *Compiler) compileComparison(
	section template.ComparisonSection, tbl *table.Table,
) ([]*CompiledSection, error) {
	groups := FindComparisonGroups(tbl.Columns(), section.Tag, section.Columns)

	var compiled []*CompiledSection
	for _, group := range groups {
		columns := SelectComparisonGroupColumns(tbl.Columns(), section.Columns, group)

		style := section.SectionStyle
		style.ColumnConditionalFormat = resolveComparisonColumnConditionals(columns, section)
		style.Supheader = resolveComparisonSupheader(section, group)

		derived := template.StandardSection{SectionStyle: style, Columns: columns}
		groupSection, err := c.compileStandard(derived, tbl, DefaultFormat)
		if err != nil {
			return nil, err
		}
		groupSection.Headers = resolveComparisonHeaders(columns, section, group)
		compiled = append(compiled, groupSection)
	}
	return compiled, nil
}

// compileRemainingColumns builds a hidden standard-like section holding all
// table columns not claimed by any compiled section.
func (c *Compiler) compileRemainingColumns(
	compiled []*CompiledSection, tbl *table.Table,
) (*CompiledSection, error) {
	claimed := map[string]bool{}
	for _, section := range compiled {
		for _, name := range section.Columns() {
			claimed[name] = true
		}
	}
	var remaining []string
	for _, name := range tbl.Columns() {
		if !claimed[name] {
			remaining = append(remaining, name)
		}
	}

	section := template.StandardSection{Columns: remaining}
	remainingSection, err := c.compileStandard(section, tbl, RemainingColumnFormat)
	if err != nil {
		return nil, err
	}
	remainingSection.HideSection = true
	return remainingSection, nil
}

// PruneCompiledSections removes duplicate columns across sections, keeping
// only the first occurrence of each column name. Later sections shrink or
// become empty.
func PruneCompiledSections(sections []*CompiledSection) error {
	claimed := map[string]bool{}
	for _, section := range sections {
		var duplicates []string
		for _, name := range section.Columns() {
			if claimed[name] {
				duplicates = append(duplicates, name)
			}
		}
		if len(duplicates) > 0 {
			if err := section.RemoveColumns(duplicates); err != nil {
				return err
			}
		}
		for _, name := range section.Columns() {
			claimed[name] = true
		}
	}
	return nil
}

func removeEmptySections(sections []*CompiledSection) []*CompiledSection {
	kept := make([]*CompiledSection, 0, len(sections))
	for _, section := range sections {
		if !section.IsEmpty() {
			kept = append(kept, section)
		}
	}
	return kept
}
