package template

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FindingLevel grades the severity of a validation finding.
type FindingLevel int

const (
	LevelInfo FindingLevel = iota
	LevelWarning
	LevelError
	LevelCritical
)

func (l FindingLevel) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	}
	return "CRITICAL"
}

// Finding is a single validation diagnostic. Findings never stop
// compilation, they exist to give users actionable feedback before a report
// is generated.
type Finding struct {
	Level       FindingLevel
	Field       string
	Description string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Level, f.Field, f.Description)
}

// ValidateFile checks that a template file can be loaded at all. All
// findings are critical since a broken file cannot become a Template.
func ValidateFile(path string) []Finding {
	doc, err := os.ReadFile(path)
	if err != nil {
		return []Finding{{
			Level:       LevelCritical,
			Field:       path,
			Description: fmt.Sprintf("cannot read file: %v", err),
		}}
	}
	var root map[string]any
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return []Finding{{
			Level:       LevelCritical,
			Field:       path,
			Description: fmt.Sprintf("not a valid YAML mapping: %v", err),
		}}
	}
	return nil
}

// Validate inspects a parsed template for content problems: sections that
// fit no category, references to undefined formats, defined but unused
// formats, missing header/supheader formats, and unknown settings keys.
func Validate(t *Template) []Finding {
	var findings []Finding
	findings = append(findings, validateSections(t)...)
	findings = append(findings, validateFormatUsage(t)...)
	findings = append(findings, validateSettingsKeys(t)...)
	return findings
}

func validateSections(t *Template) []Finding {
	var findings []Finding
	for _, named := range t.Sections {
		if named.Section.Category() == CategoryUnknown {
			findings = append(findings, Finding{
				Level:       LevelWarning,
				Field:       "sections." + named.Name,
				Description: "section fits no category and will be skipped",
			})
		}
	}
	return findings
}

func validateFormatUsage(t *Template) []Finding {
	var findings []Finding

	usedFormats := map[string]bool{}
	usedConditionals := map[string]bool{}
	for _, named := range t.Sections {
		style := named.Section.Style()
		field := "sections." + named.Name

		for _, name := range collectFormatNames(style) {
			usedFormats[name] = true
			if _, defined := t.Formats[name]; !defined {
				findings = append(findings, Finding{
					Level:       LevelError,
					Field:       field,
					Description: fmt.Sprintf("format %q is not defined", name),
				})
			}
		}
		for _, name := range collectConditionalNames(style) {
			usedConditionals[name] = true
			if _, defined := t.ConditionalFormats[name]; !defined {
				findings = append(findings, Finding{
					Level:       LevelError,
					Field:       field,
					Description: fmt.Sprintf("conditional format %q is not defined", name),
				})
			}
		}
	}

	for _, special := range []string{"header", "supheader"} {
		if _, defined := t.Formats[special]; !defined {
			findings = append(findings, Finding{
				Level:       LevelInfo,
				Field:       "formats",
				Description: fmt.Sprintf("special format %q is not defined", special),
			})
		}
	}

	findings = append(findings,
		unusedFormatFindings("formats", t.Formats, usedFormats, "header", "supheader")...)
	findings = append(findings,
		unusedFormatFindings("conditional_formats", t.ConditionalFormats, usedConditionals)...)
	return findings
}

func collectFormatNames(style SectionStyle) []string {
	var names []string
	if style.Format != "" {
		names = append(names, style.Format)
	}
	for _, name := range style.ColumnFormat {
		names = append(names, name)
	}
	return names
}

func collectConditionalNames(style SectionStyle) []string {
	var names []string
	if style.ConditionalFormat != "" {
		names = append(names, style.ConditionalFormat)
	}
	for _, name := range style.ColumnConditionalFormat {
		names = append(names, name)
	}
	return names
}

func unusedFormatFindings(
	field string, defined FormatMap, used map[string]bool, exempt ...string,
) []Finding {
	exemptSet := map[string]bool{}
	for _, name := range exempt {
		exemptSet[name] = true
	}
	var unused []string
	for name := range defined {
		if !used[name] && !exemptSet[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)

	findings := make([]Finding, 0, len(unused))
	for _, name := range unused {
		findings = append(findings, Finding{
			Level:       LevelInfo,
			Field:       field,
			Description: fmt.Sprintf("format %q is defined but never used", name),
		})
	}
	return findings
}

func validateSettingsKeys(t *Template) []Finding {
	known := map[string]bool{}
	for _, key := range settingsKeys() {
		known[key] = true
	}
	var unknown []string
	for key := range t.rawSettings {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	findings := make([]Finding, 0, len(unknown))
	for _, key := range unknown {
		findings = append(findings, Finding{
			Level:       LevelWarning,
			Field:       "settings." + key,
			Description: "unknown settings parameter",
		})
	}
	return findings
}

func settingsKeys() []string {
	return strings.Split(
		"supheader_height header_height column_width log2_tag "+
			"sample_extraction_tag append_remaining_columns write_supheader "+
			"evaluate_log2_transformation remove_duplicate_columns "+
			"add_autofilter freeze_cols", " ")
}

// MaxLevel returns the highest severity among the findings, or LevelInfo
// when there are none.
func MaxLevel(findings []Finding) FindingLevel {
	level := LevelInfo
	for _, finding := range findings {
		if finding.Level > level {
			level = finding.Level
		}
	}
	return level
}
