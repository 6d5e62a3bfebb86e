package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingsForField(findings []Finding, field string) []Finding {
	var matched []Finding
	for _, finding := range findings {
		if finding.Field == field {
			matched = append(matched, finding)
		}
	}
	return matched
}

func TestValidateFileMissingFile(t *testing.T) {
	findings := ValidateFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Len(t, findings, 1)
	assert.Equal(t, LevelCritical, findings[0].Level)
}

func TestValidateFileBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: [unclosed"), 0o644))

	findings := ValidateFile(path)
	require.Len(t, findings, 1)
	assert.Equal(t, LevelCritical, findings[0].Level)
}

func TestValidateFileValidTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: {}\n"), 0o644))
	assert.Empty(t, ValidateFile(path))
}

func TestValidateReportsUnknownSection(t *testing.T) {
	tmpl, err := Parse([]byte("sections:\n  odd:\n    comment: disabled\n"))
	require.NoError(t, err)

	findings := findingsForField(Validate(tmpl), "sections.odd")
	require.Len(t, findings, 1)
	assert.Equal(t, LevelWarning, findings[0].Level)
}

func TestValidateReportsUndefinedFormatReferences(t *testing.T) {
	doc := `
sections:
  main:
    columns: ["A"]
    format: "missing"
    conditional_format: "also_missing"
`
	tmpl, err := Parse([]byte(doc))
	require.NoError(t, err)

	findings := findingsForField(Validate(tmpl), "sections.main")
	require.Len(t, findings, 2)
	for _, finding := range findings {
		assert.Equal(t, LevelError, finding.Level)
	}
}

func TestValidateReportsUnusedFormats(t *testing.T) {
	doc := `
sections:
  main:
    columns: ["A"]
formats:
  header: {"bold": true}
  supheader: {"bold": true}
  orphan: {"align": "left"}
`
	tmpl, err := Parse([]byte(doc))
	require.NoError(t, err)

	findings := findingsForField(Validate(tmpl), "formats")
	require.Len(t, findings, 1)
	assert.Equal(t, LevelInfo, findings[0].Level)
	assert.Contains(t, findings[0].Description, "orphan")
}

func TestValidateReportsMissingSpecialFormats(t *testing.T) {
	tmpl, err := Parse([]byte("sections: {}\n"))
	require.NoError(t, err)

	findings := findingsForField(Validate(tmpl), "formats")
	assert.Len(t, findings, 2)
}

func TestValidateReportsUnknownSettingsKeys(t *testing.T) {
	tmpl, err := Parse([]byte("settings:\n  mystery_option: 3\n"))
	require.NoError(t, err)

	findings := findingsForField(Validate(tmpl), "settings.mystery_option")
	require.Len(t, findings, 1)
	assert.Equal(t, LevelWarning, findings[0].Level)
}

func TestMaxLevel(t *testing.T) {
	assert.Equal(t, LevelInfo, MaxLevel(nil))
	assert.Equal(t, LevelError, MaxLevel([]Finding{
		{Level: LevelInfo},
		{Level: LevelError},
		{Level: LevelWarning},
	}))
}
