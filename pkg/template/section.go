package template

import (
	"fmt"
	"sort"
)

// SectionCategory identifies which compiler logic applies to a section.
type SectionCategory int

const (
	CategoryUnknown SectionCategory = iota
	CategoryStandard
	CategoryTag
	CategoryLabelTag
	CategoryComparison
)

func (c SectionCategory) String() string {
	switch c {
	case CategoryStandard:
		return "standard"
	case CategoryTag:
		return "tag"
	case CategoryLabelTag:
		return "label_tag"
	case CategoryComparison:
		return "comparison"
	}
	return "unknown"
}

// Section is the common interface of all section template categories.
type Section interface {
	Category() SectionCategory
	Style() SectionStyle
}

// SectionStyle holds the optional parameters shared by all section
// categories.
type SectionStyle struct {
	Format                  string
	ColumnFormat            map[string]string
	ConditionalFormat       string
	ColumnConditionalFormat map[string]string
	HeaderFormat            Format
	Supheader               string
	SupheaderFormat         Format
	Width                   *float64
	Border                  bool
}

// StandardSection describes a section selecting an explicit list of columns.
type StandardSection struct {
	SectionStyle
	Columns []string
}

func (s StandardSection) Category() SectionCategory { return CategoryStandard }
func (s StandardSection) Style() SectionStyle       { return s.SectionStyle }

// TagSection describes a section selecting columns by a tag pattern.
type TagSection struct {
	SectionStyle
	Tag       string
	RemoveTag bool
	Log2      bool
}

func (s TagSection) Category() SectionCategory { return CategoryTag }
func (s TagSection) Style() SectionStyle       { return s.SectionStyle }

// LabelTagSection describes a tag section restricted to an explicit list of
// sample labels. Column order follows the labels list.
type LabelTagSection struct {
	SectionStyle
	Tag       string
	Labels    []string
	RemoveTag bool
	Log2      bool
}

func (s LabelTagSection) Category() SectionCategory { return CategoryLabelTag }
func (s LabelTagSection) Style() SectionStyle       { return s.SectionStyle }

// ComparisonSection describes a section that fans out into one compiled
// section per detected comparison group. Columns lists role prefixes such as
// "P-value" or "Ratio", not actual column names.
type ComparisonSection struct {
	SectionStyle
	Tag                  string
	Columns              []string
	RemoveTag            bool
	ReplaceComparisonTag *string
}

func (s ComparisonSection) Category() SectionCategory { return CategoryComparison }
func (s ComparisonSection) Style() SectionStyle       { return s.SectionStyle }

// UnknownSection is a section that fits no category. It is kept in the
// template but silently skipped during compilation, which is the documented
// way of disabling a section without deleting it.
type UnknownSection struct {
	SectionStyle
	Raw map[string]any
}

func (s UnknownSection) Category() SectionCategory { return CategoryUnknown }
func (s UnknownSection) Style() SectionStyle       { return s.SectionStyle }

type paramKind int

const (
	kindString paramKind = iota
	kindBool
	kindFloat
	kindList
	kindDict
)

type sectionSchema struct {
	params   map[string]paramKind
	required []string
}

var styleParams = map[string]paramKind{
	"format":                    kindString,
	"column_format":             kindDict,
	"conditional_format":        kindString,
	"column_conditional_format": kindDict,
	"header_format":             kindDict,
	"supheader":                 kindString,
	"supheader_format":          kindDict,
	"width":                     kindFloat,
	"border":                    kindBool,
}

var sectionSchemas = map[SectionCategory]sectionSchema{
	CategoryStandard: {
		params:   withStyleParams(map[string]paramKind{"columns": kindList}),
		required: []string{"columns"},
	},
	CategoryTag: {
		params: withStyleParams(map[string]paramKind{
			"tag":        kindString,
			"remove_tag": kindBool,
			"log2":       kindBool,
		}),
		required: []string{"tag"},
	},
	CategoryLabelTag: {
		params: withStyleParams(map[string]paramKind{
			"tag":        kindString,
			"labels":     kindList,
			"remove_tag": kindBool,
			"log2":       kindBool,
		}),
		required: []string{"tag", "labels"},
	},
	CategoryComparison: {
		params: withStyleParams(map[string]paramKind{
			"comparison_group":       kindBool,
			"tag":                    kindString,
			"columns":                kindList,
			"remove_tag":             kindBool,
			"replace_comparison_tag": kindString,
		}),
		required: []string{"comparison_group", "tag", "columns"},
	},
}

func withStyleParams(params map[string]paramKind) map[string]paramKind {
	merged := make(map[string]paramKind, len(styleParams)+len(params))
	for key, kind := range styleParams {
		merged[key] = kind
	}
	for key, kind := range params {
		merged[key] = kind
	}
	return merged
}

// Classify determines the category of a raw section description by testing
// it against the per-category schemas. Key presence, key types and required
// keys all take part in the match; a comparison match additionally requires
// comparison_group to be true. A section matching no schema is classified
// unknown, a section matching more than one is rejected.
func Classify(raw map[string]any) (SectionCategory, error) {
	var matched []SectionCategory
	for _, category := range []SectionCategory{
		CategoryStandard, CategoryTag, CategoryLabelTag, CategoryComparison,
	} {
		if matchesSchema(raw, sectionSchemas[category]) {
			matched = append(matched, category)
		}
	}
	if len(matched) > 1 {
		names := make([]string, len(matched))
		for i, category := range matched {
			names[i] = category.String()
		}
		sort.Strings(names)
		return CategoryUnknown, fmt.Errorf(
			"section matches multiple categories: %v", names,
		)
	}
	if len(matched) == 0 {
		return CategoryUnknown, nil
	}
	return matched[0], nil
}

func matchesSchema(raw map[string]any, schema sectionSchema) bool {
	for key, value := range raw {
		kind, allowed := schema.params[key]
		if !allowed || !matchesKind(value, kind) {
			return false
		}
	}
	for _, key := range schema.required {
		if _, present := raw[key]; !present {
			return false
		}
	}
	if group, present := raw["comparison_group"]; present {
		if truthy, ok := group.(bool); !ok || !truthy {
			return false
		}
	}
	return true
}

func matchesKind(value any, kind paramKind) bool {
	switch kind {
	case kindString:
		_, ok := value.(string)
		return ok
	case kindBool:
		_, ok := value.(bool)
		return ok
	case kindFloat:
		switch value.(type) {
		case float64, int:
			return true
		}
		return false
	case kindList:
		_, ok := value.([]any)
		return ok
	case kindDict:
		_, ok := value.(map[string]any)
		return ok
	}
	return false
}

// ParseSection builds a typed section from a raw template description.
// Sections that fit no category are returned as UnknownSection, only an
// ambiguous classification is an error.
func ParseSection(raw map[string]any) (Section, error) {
	category, err := Classify(raw)
	if err != nil {
		return nil, err
	}

	style := parseSectionStyle(raw)
	switch category {
	case CategoryStandard:
		return StandardSection{
			SectionStyle: style,
			Columns:      stringList(raw["columns"]),
		}, nil
	case CategoryTag:
		return TagSection{
			SectionStyle: style,
			Tag:          stringValue(raw["tag"]),
			RemoveTag:    boolValue(raw["remove_tag"]),
			Log2:         boolValue(raw["log2"]),
		}, nil
	case CategoryLabelTag:
		return LabelTagSection{
			SectionStyle: style,
			Tag:          stringValue(raw["tag"]),
			Labels:       stringList(raw["labels"]),
			RemoveTag:    boolValue(raw["remove_tag"]),
			Log2:         boolValue(raw["log2"]),
		}, nil
	case CategoryComparison:
		section := ComparisonSection{
			SectionStyle: style,
			Tag:          stringValue(raw["tag"]),
			Columns:      stringList(raw["columns"]),
			RemoveTag:    boolValue(raw["remove_tag"]),
		}
		if replacement, present := raw["replace_comparison_tag"]; present {
			value := stringValue(replacement)
			section.ReplaceComparisonTag = &value
		}
		return section, nil
	}
	return UnknownSection{SectionStyle: style, Raw: raw}, nil
}

func parseSectionStyle(raw map[string]any) SectionStyle {
	style := SectionStyle{
		Format:                  stringValue(raw["format"]),
		ColumnFormat:            stringMap(raw["column_format"]),
		ConditionalFormat:       stringValue(raw["conditional_format"]),
		ColumnConditionalFormat: stringMap(raw["column_conditional_format"]),
		HeaderFormat:            formatValue(raw["header_format"]),
		Supheader:               stringValue(raw["supheader"]),
		SupheaderFormat:         formatValue(raw["supheader_format"]),
		Border:                  boolValue(raw["border"]),
	}
	if width, present := raw["width"]; present {
		if number, err := asFloat(width); err == nil {
			style.Width = &number
		}
	}
	return style
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

func boolValue(value any) bool {
	b, _ := value.(bool)
	return b
}

func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

func stringMap(value any) map[string]string {
	entries, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(entries))
	for key, entry := range entries {
		out[key] = fmt.Sprint(entry)
	}
	return out
}

func formatValue(value any) Format {
	entries, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return Format(entries).Copy()
}
