package compiler

import (
	"regexp"
	"strings"

	"github.com/minhkhoavo/xlsxreport/pkg/template"
)

// ResolveColumnFormats returns a format description per column. The format
// name is taken from the section's column_format entry, falling back to the
// section format and finally to the caller-supplied default description.
// With border enabled the first column gains a thick left border and the
// last column a thick right border.
func ResolveColumnFormats(
	columns []string,
	style template.SectionStyle,
	formats template.FormatMap,
	defaultFormat template.Format,
) map[string]template.Format {
	resolved := make(map[string]template.Format, len(columns))
	if len(columns) == 0 {
		return resolved
	}
	for _, name := range columns {
		formatName := style.Format
		if columnName, ok := style.ColumnFormat[name]; ok {
			formatName = columnName
		}
		resolved[name] = formats.Get(formatName, defaultFormat)
	}
	if style.Border {
		resolved[columns[0]]["left"] = BorderWeight
		resolved[columns[len(columns)-1]]["right"] = BorderWeight
	}
	return resolved
}

// ResolveColumnConditionalFormats returns a conditional format description
// per column. Columns without an entry in column_conditional_format, and
// names missing from the conditional formats mapping, resolve to an empty
// description; this is a valid state and never an error.
func ResolveColumnConditionalFormats(
	columns []string,
	style template.SectionStyle,
	conditionalFormats template.FormatMap,
) map[string]template.Format {
	resolved := make(map[string]template.Format, len(columns))
	for _, name := range columns {
		formatName := style.ColumnConditionalFormat[name]
		resolved[name] = conditionalFormats.Get(formatName, nil)
	}
	return resolved
}

// ResolveColumnWidths returns the width per column, using the section width
// when present and the caller-supplied default otherwise.
func ResolveColumnWidths(
	columns []string, style template.SectionStyle, defaultWidth float64,
) map[string]float64 {
	width := defaultWidth
	if style.Width != nil {
		width = *style.Width
	}
	resolved := make(map[string]float64, len(columns))
	for _, name := range columns {
		resolved[name] = width
	}
	return resolved
}

// ResolveHeaderFormats returns a header format description per column, the
// section's header_format override merged onto the named "header" format.
// Border handling matches ResolveColumnFormats.
func ResolveHeaderFormats(
	columns []string,
	style template.SectionStyle,
	formats template.FormatMap,
) map[string]template.Format {
	resolved := make(map[string]template.Format, len(columns))
	if len(columns) == 0 {
		return resolved
	}
	merged := formats.Get("header", nil).Merge(style.HeaderFormat)
	for _, name := range columns {
		resolved[name] = merged.Copy()
	}
	if style.Border {
		resolved[columns[0]]["left"] = BorderWeight
		resolved[columns[len(columns)-1]]["right"] = BorderWeight
	}
	return resolved
}

// ResolveSupheaderFormat returns the supheader format description, the
// section's supheader_format override merged onto the named "supheader"
// format. A bordered section gets both a left and a right border since the
// supheader spans the full section width.
func ResolveSupheaderFormat(
	style template.SectionStyle, formats template.FormatMap,
) template.Format {
	merged := formats.Get("supheader", nil).Merge(style.SupheaderFormat)
	if style.Border {
		merged["left"] = BorderWeight
		merged["right"] = BorderWeight
	}
	return merged
}

// ResolveSectionConditionalFormat returns the section wide conditional
// format description, or an empty description when the name is absent.
func ResolveSectionConditionalFormat(
	style template.SectionStyle, conditionalFormats template.FormatMap,
) template.Format {
	return conditionalFormats.Get(style.ConditionalFormat, nil)
}

// resolveTagHeaders computes header texts for tag section columns. With
// remove_tag the tag match is stripped and whitespace trimmed, which takes
// priority over the log2 tag: a cleaned sample name never gets a suffix.
// Otherwise the configured log2 tag is appended for log2 sections.
func resolveTagHeaders(
	columns []string,
	pattern *regexp.Regexp,
	tag string,
	removeTag bool,
	log2 bool,
	log2Tag string,
) map[string]string {
	headers := make(map[string]string, len(columns))
	for _, name := range columns {
		header := name
		if removeTag {
			if pattern != nil {
				header = pattern.ReplaceAllString(name, "")
			} else {
				header = strings.ReplaceAll(name, tag, "")
			}
			header = strings.TrimSpace(header)
		} else if log2 && log2Tag != "" {
			header = header + " " + log2Tag
		}
		headers[name] = header
	}
	return headers
}

// resolveTagSupheader appends the log2 tag to a tag section supheader. An
// empty supheader stays empty.
func resolveTagSupheader(supheader string, log2 bool, log2Tag string) string {
	if supheader != "" && log2 && log2Tag != "" {
		return supheader + " " + log2Tag
	}
	return supheader
}

// resolveComparisonHeaders computes header texts for a comparison group's
// columns. With remove_tag the group label is stripped, leaving the role
// prefix; a replacement comparison tag substitutes the comparison tag in
// whatever header text remains.
func resolveComparisonHeaders(
	columns []string, section template.ComparisonSection, group string,
) map[string]string {
	headers := make(map[string]string, len(columns))
	for _, name := range columns {
		header := name
		if section.RemoveTag {
			header = strings.Trim(strings.ReplaceAll(header, group, ""), trimChars)
		}
		if section.ReplaceComparisonTag != nil {
			header = strings.ReplaceAll(header, section.Tag, *section.ReplaceComparisonTag)
		}
		headers[name] = header
	}
	return headers
}

// resolveComparisonSupheader returns the supheader for a comparison group,
// the group label with an optional comparison tag replacement.
func resolveComparisonSupheader(section template.ComparisonSection, group string) string {
	if section.ReplaceComparisonTag != nil {
		return strings.ReplaceAll(group, section.Tag, *section.ReplaceComparisonTag)
	}
	return group
}

// resolveComparisonColumnConditionals matches the tag-keyed
// column_conditional_format entries of a comparison section against the
// group's columns, producing a column-keyed mapping for the derived
// standard section.
func resolveComparisonColumnConditionals(
	columns []string, section template.ComparisonSection,
) map[string]string {
	resolved := map[string]string{}
	for tag, formatName := range section.ColumnConditionalFormat {
		for _, name := range columns {
			if strings.Contains(name, tag) {
				resolved[name] = formatName
			}
		}
	}
	return resolved
}
