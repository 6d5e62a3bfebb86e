package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhkhoavo/xlsxreport/pkg/table"
	"github.com/minhkhoavo/xlsxreport/pkg/template"
)

func parseTemplate(t *testing.T, doc string) *template.Template {
	t.Helper()
	tmpl, err := template.Parse([]byte(doc))
	require.NoError(t, err)
	return tmpl
}

func testTable(t *testing.T) *table.Table {
	t.Helper()
	return table.MustNew(
		table.Column{Name: "Protein IDs", Values: []any{"P01", "P02"}},
		table.Column{Name: "Gene names", Values: []any{"GA", nil}},
		table.Column{Name: "Intensity S1", Values: []any{4.0, 8.0}},
		table.Column{Name: "Intensity S2", Values: []any{16.0, nil}},
		table.Column{Name: "Score", Values: []any{1.5, 2.5}},
	)
}

func TestCompileStandardSection(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  proteins:
    columns: ["Protein IDs", "Gene names", "Missing column"]
    format: "str"
formats:
  str: {"align": "left"}
`)
	sections, err := CompileSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.Len(t, sections, 1)

	section := sections[0]
	assert.Equal(t, []string{"Protein IDs", "Gene names"}, section.Columns())
	assert.Equal(t, template.Format{"align": "left"}, section.ColumnFormats["Protein IDs"])
	assert.Equal(t, "Protein IDs", section.Headers["Protein IDs"])

	genes, err := section.Data.Column("Gene names")
	require.NoError(t, err)
	assert.Equal(t, []any{"GA", MissingValueSymbol}, genes)
}

func TestCompileTagSection(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  intensities:
    tag: "Intensity"
    remove_tag: true
settings:
  column_width: 45
`)
	sections, err := CompileSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.Len(t, sections, 1)

	section := sections[0]
	assert.Equal(t, []string{"Intensity S1", "Intensity S2"}, section.Columns())
	assert.Equal(t, "S1", section.Headers["Intensity S1"])
	assert.Equal(t, 45.0, section.ColumnWidths["Intensity S1"])
}

func TestCompileTagSectionLog2(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  intensities:
    tag: "Intensity"
    log2: true
    supheader: "Intensity"
settings:
  log2_tag: "[log2]"
`)
	sections, err := CompileSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.Len(t, sections, 1)

	section := sections[0]
	assert.Equal(t, "Intensity [log2]", section.Supheader)
	assert.Equal(t, "Intensity S1 [log2]", section.Headers["Intensity S1"])

	values, err := section.Data.Column("Intensity S1")
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 3.0}, values)

	// the missing intensity stays missing after the transform
	values, err = section.Data.Column("Intensity S2")
	require.NoError(t, err)
	assert.Equal(t, []any{4.0, MissingValueSymbol}, values)
}

func TestCompileTagSectionSampleVariant(t *testing.T) {
	tbl := table.MustNew(
		table.Column{Name: "Intensity S1", Values: []any{1.0}},
		table.Column{Name: "iBAQ S1", Values: []any{2.0}},
		table.Column{Name: "iBAQ peptides", Values: []any{3.0}},
	)
	tmpl := parseTemplate(t, `
sections:
  ibaq:
    tag: "iBAQ"
settings:
  sample_extraction_tag: "Intensity"
`)
	sections, err := CompileSections(tmpl, tbl)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"iBAQ S1"}, sections[0].Columns())
}

func TestCompileLabelTagSection(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  selected:
    tag: "Intensity"
    labels: ["S2", "S1"]
    remove_tag: true
`)
	sections, err := CompileSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"Intensity S2", "Intensity S1"}, sections[0].Columns())
}

func TestCompileComparisonSection(t *testing.T) {
	tbl := table.MustNew(
		table.Column{Name: "P-value A vs B", Values: []any{0.01}},
		table.Column{Name: "Ratio A vs B", Values: []any{1.5}},
		table.Column{Name: "P-value C vs D", Values: []any{0.05}},
		table.Column{Name: "Ratio C vs D", Values: []any{0.5}},
	)
	tmpl := parseTemplate(t, `
sections:
  comparisons:
    comparison_group: true
    tag: " vs "
    columns: ["P-value", "Ratio"]
    remove_tag: true
    column_conditional_format: {"P-value": "pvalue_scale"}
conditional_formats:
  pvalue_scale: {"type": "2_color_scale"}
`)
	sections, err := CompileSections(tmpl, tbl)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	first := sections[0]
	assert.Equal(t, []string{"P-value A vs B", "Ratio A vs B"}, first.Columns())
	assert.Equal(t, "A vs B", first.Supheader)
	assert.Equal(t, "P-value", first.Headers["P-value A vs B"])
	assert.Equal(t,
		template.Format{"type": "2_color_scale"},
		first.ColumnConditionalFormats["P-value A vs B"])
	assert.Equal(t, template.Format{}, first.ColumnConditionalFormats["Ratio A vs B"])

	second := sections[1]
	assert.Equal(t, "C vs D", second.Supheader)
}

func TestCompileSkipsUnknownSections(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  odd:
    comment: "disabled"
  proteins:
    columns: ["Protein IDs"]
`)
	sections, err := CompileSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"Protein IDs"}, sections[0].Columns())
}

func TestPrepareAppendsRemainingColumns(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  proteins:
    columns: ["Protein IDs"]
  intensities:
    tag: "Intensity"
settings:
  append_remaining_columns: true
`)
	sections, err := PrepareCompiledSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.Len(t, sections, 3)

	remaining := sections[2]
	assert.Equal(t, []string{"Gene names", "Score"}, remaining.Columns())
	assert.True(t, remaining.HideSection)
	assert.Equal(t, RemainingColumnFormat, remaining.ColumnFormats["Score"])
}

func TestPrepareDropsEmptySections(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  absent:
    columns: ["Not in table"]
  proteins:
    columns: ["Protein IDs"]
`)
	sections, err := PrepareCompiledSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"Protein IDs"}, sections[0].Columns())
}

func TestPrepareRemovesDuplicateColumnsFirstWins(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  first:
    columns: ["Protein IDs", "Score"]
  second:
    columns: ["Score", "Gene names"]
`)
	sections, err := PrepareCompiledSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, []string{"Protein IDs", "Score"}, sections[0].Columns())
	assert.Equal(t, []string{"Gene names"}, sections[1].Columns())
}

func TestPrepareKeepsDuplicatesWhenDisabled(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  first:
    columns: ["Protein IDs", "Score"]
  second:
    columns: ["Score", "Gene names"]
settings:
  remove_duplicate_columns: false
`)
	sections, err := PrepareCompiledSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, []string{"Score", "Gene names"}, sections[1].Columns())
}

func TestPruneCompiledSectionsNoColumnLoss(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  first:
    columns: ["Protein IDs", "Score"]
  second:
    columns: ["Score", "Protein IDs"]
  third:
    columns: ["Score", "Gene names"]
`)
	sections, err := CompileSections(tmpl, testTable(t))
	require.NoError(t, err)
	require.NoError(t, PruneCompiledSections(sections))

	var all []string
	for _, section := range sections {
		all = append(all, section.Columns()...)
	}
	assert.Equal(t, []string{"Protein IDs", "Score", "Gene names"}, all)
	assert.True(t, sections[1].IsEmpty())
}

func TestRemoveColumnsKeepsMappingsConsistent(t *testing.T) {
	tmpl := parseTemplate(t, `
sections:
  proteins:
    columns: ["Protein IDs", "Gene names"]
`)
	sections, err := CompileSections(tmpl, testTable(t))
	require.NoError(t, err)
	section := sections[0]

	require.NoError(t, section.RemoveColumns([]string{"Gene names"}))
	assert.Equal(t, []string{"Protein IDs"}, section.Columns())
	assert.NotContains(t, section.ColumnFormats, "Gene names")
	assert.NotContains(t, section.Headers, "Gene names")
	assert.NotContains(t, section.ColumnWidths, "Gene names")
}
