package compiler

import (
	"fmt"
	"regexp"
	"strings"
)

// SelectStandardColumns intersects the columns requested by a standard
// section with the columns present in the table, preserving the order of
// the section's column list. Repeated entries are selected once.
func SelectStandardColumns(columns []string, requested []string) []string {
	present := map[string]bool{}
	for _, name := range columns {
		present[name] = true
	}
	var selected []string
	seen := map[string]bool{}
	for _, name := range requested {
		if present[name] && !seen[name] {
			selected = append(selected, name)
			seen[name] = true
		}
	}
	return selected
}

// SelectTagColumns selects all table columns whose name matches the tag as
// a regular expression.
func SelectTagColumns(columns []string, tag string) ([]string, error) {
	pattern, err := regexp.Compile(tag)
	if err != nil {
		return nil, fmt.Errorf("section tag %q: %w", tag, err)
	}
	var selected []string
	for _, name := range columns {
		if pattern.MatchString(name) {
			selected = append(selected, name)
		}
	}
	return selected, nil
}

// SelectTagSampleColumns selects columns by substring tag matching. Sample
// names are derived from all columns containing the extraction tag by
// stripping the tag and surrounding whitespace; a column is selected when
// it contains both the section tag and one of the derived sample names.
func SelectTagSampleColumns(columns []string, tag string, extractionTag string) []string {
	var samples []string
	for _, name := range columns {
		if !strings.Contains(name, extractionTag) || name == extractionTag {
			continue
		}
		samples = append(samples, strings.TrimSpace(strings.ReplaceAll(name, extractionTag, "")))
	}

	var selected []string
	for _, name := range columns {
		if !strings.Contains(name, tag) {
			continue
		}
		for _, sample := range samples {
			if strings.Contains(name, sample) {
				selected = append(selected, name)
				break
			}
		}
	}
	return selected
}

// SelectLabelTagColumns selects columns matching the tag pattern whose
// remainder, after removing the tag match and trimming whitespace and dots,
// equals one of the given labels. The output order follows the labels list,
// not the table column order.
func SelectLabelTagColumns(columns []string, tag string, labels []string) ([]string, error) {
	pattern, err := regexp.Compile(tag)
	if err != nil {
		return nil, fmt.Errorf("section tag %q: %w", tag, err)
	}
	var selected []string
	for _, label := range labels {
		for _, name := range columns {
			if !pattern.MatchString(name) {
				continue
			}
			remainder := strings.Trim(pattern.ReplaceAllString(name, ""), trimChars)
			if remainder == label {
				selected = append(selected, name)
			}
		}
	}
	return selected, nil
}

// FindComparisonGroups extracts comparison group labels from the table
// columns. A group label is the remainder of a column containing both the
// comparison tag and one of the role prefixes, after removing the role
// prefix and trimming whitespace and dots. Labels are collected uniquely in
// first-seen order.
func FindComparisonGroups(columns []string, tag string, roles []string) []string {
	var tagged []string
	for _, name := range columns {
		if strings.Contains(name, tag) {
			tagged = append(tagged, name)
		}
	}

	var groups []string
	seen := map[string]bool{}
	for _, role := range roles {
		for _, name := range tagged {
			if !strings.Contains(name, role) {
				continue
			}
			group := strings.Trim(strings.ReplaceAll(name, role, ""), trimChars)
			if group != "" && !seen[group] {
				groups = append(groups, group)
				seen[group] = true
			}
		}
	}
	return groups
}

// SelectComparisonGroupColumns selects the columns belonging to a
// comparison group. A column belongs to the group when removing the group
// label and every role prefix leaves nothing but whitespace and dots, which
// guards against substring collisions between group labels. The output
// order follows the role order of the section, not the table order.
func SelectComparisonGroupColumns(columns []string, roles []string, group string) []string {
	var matched []string
	for _, name := range columns {
		if !strings.Contains(name, group) {
			continue
		}
		leftover := strings.ReplaceAll(name, group, "")
		for _, role := range roles {
			leftover = strings.ReplaceAll(leftover, role, "")
		}
		if strings.Trim(leftover, trimChars) == "" {
			matched = append(matched, name)
		}
	}

	var selected []string
	seen := map[string]bool{}
	for _, role := range roles {
		for _, name := range matched {
			if !seen[name] && strings.Contains(name, role) {
				selected = append(selected, name)
				seen[name] = true
			}
		}
	}
	return selected
}
