package template

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = `
sections:
  proteins:
    columns: ["Protein IDs", "Gene names"]
    format: "str"
  intensities:
    tag: "Intensity"
    remove_tag: true
    log2: true
  disabled:
    comment: "kept for later"
formats:
  str: {"align": "left", "num_format": "@"}
  header: {"bold": true, "bottom": 2}
conditional_formats:
  intensity: {"type": "2_color_scale"}
settings:
  log2_tag: "[log2]"
  write_supheader: true
`

func TestParsePreservesSectionOrder(t *testing.T) {
	tmpl, err := Parse([]byte(testTemplate))
	require.NoError(t, err)

	require.Len(t, tmpl.Sections, 3)
	assert.Equal(t, "proteins", tmpl.Sections[0].Name)
	assert.Equal(t, "intensities", tmpl.Sections[1].Name)
	assert.Equal(t, "disabled", tmpl.Sections[2].Name)

	assert.Equal(t, CategoryStandard, tmpl.Sections[0].Section.Category())
	assert.Equal(t, CategoryTag, tmpl.Sections[1].Section.Category())
	assert.Equal(t, CategoryUnknown, tmpl.Sections[2].Section.Category())
}

func TestParseFormatsAndSettings(t *testing.T) {
	tmpl, err := Parse([]byte(testTemplate))
	require.NoError(t, err)

	assert.Equal(t, Format{"align": "left", "num_format": "@"}, tmpl.Formats["str"])
	assert.Equal(t, Format{"type": "2_color_scale"}, tmpl.ConditionalFormats["intensity"])

	// explicit values are applied, everything else keeps its default
	assert.Equal(t, "[log2]", tmpl.Settings.Log2Tag)
	assert.True(t, tmpl.Settings.WriteSupheader)
	assert.Equal(t, 64.0, tmpl.Settings.ColumnWidth)
	assert.True(t, tmpl.Settings.RemoveDuplicateColumns)
	assert.Equal(t, 1, tmpl.Settings.FreezeCols)
}

func TestParseRejectsUnknownDocumentEntry(t *testing.T) {
	_, err := Parse([]byte("sections: {}\nextras: {}\n"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidSettingType(t *testing.T) {
	_, err := Parse([]byte("settings:\n  column_width: wide\n"))
	assert.Error(t, err)
}

func TestSectionLookup(t *testing.T) {
	tmpl, err := Parse([]byte(testTemplate))
	require.NoError(t, err)

	section, ok := tmpl.Section("intensities")
	require.True(t, ok)
	assert.Equal(t, CategoryTag, section.Category())

	_, ok = tmpl.Section("missing")
	assert.False(t, ok)
}

func TestDocumentRoundTrip(t *testing.T) {
	tmpl, err := Parse([]byte(testTemplate))
	require.NoError(t, err)

	doc, err := tmpl.Document()
	require.NoError(t, err)

	again, err := Parse(doc)
	require.NoError(t, err)

	require.Len(t, again.Sections, 3)
	assert.Equal(t, "proteins", again.Sections[0].Name)
	assert.Equal(t, "intensities", again.Sections[1].Name)
	assert.Equal(t, tmpl.Formats, again.Formats)
	assert.Equal(t, tmpl.Settings, again.Settings)
}

func TestSaveAndLoad(t *testing.T) {
	tmpl, err := Parse([]byte(testTemplate))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, tmpl.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tmpl.Settings, loaded.Settings)
	require.Len(t, loaded.Sections, 3)
	assert.Equal(t, "proteins", loaded.Sections[0].Name)
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	assert.Equal(t, 20.0, settings.SupheaderHeight)
	assert.Equal(t, 20.0, settings.HeaderHeight)
	assert.Equal(t, 64.0, settings.ColumnWidth)
	assert.Equal(t, "", settings.Log2Tag)
	assert.False(t, settings.AppendRemainingColumns)
	assert.False(t, settings.WriteSupheader)
	assert.False(t, settings.EvaluateLog2Transformation)
	assert.True(t, settings.RemoveDuplicateColumns)
	assert.True(t, settings.AddAutofilter)
	assert.Equal(t, 1, settings.FreezeCols)
}

func TestFormatMapGetReturnsCopies(t *testing.T) {
	formats := FormatMap{"str": {"align": "left"}}

	format := formats.Get("str", nil)
	format["align"] = "right"

	assert.Equal(t, "left", formats["str"]["align"])
	assert.Equal(t, Format{}, formats.Get("missing", nil))
	assert.Equal(t, Format{"bold": true}, formats.Get("missing", Format{"bold": true}))
}

func TestFormatMerge(t *testing.T) {
	base := Format{"bold": true, "align": "center"}
	merged := base.Merge(Format{"align": "left", "bottom": 2})

	assert.Equal(t, Format{"bold": true, "align": "left", "bottom": 2}, merged)
	assert.Equal(t, Format{"bold": true, "align": "center"}, base)
}
