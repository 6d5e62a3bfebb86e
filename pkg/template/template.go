// Package template provides the in-memory representation of report
// templates. A template describes how the columns of a table are grouped
// into visual sections, which named formats and conditional formats are
// available, and the report level settings.
//
// Templates are stored as YAML documents with four top level mappings:
// sections, formats, conditional_formats and settings.
package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NamedSection pairs a section with its template name. Section order in the
// template drives left-to-right section placement in the report.
type NamedSection struct {
	Name    string
	Section Section
}

// Template is the parsed representation of a report template document.
type Template struct {
	Sections           []NamedSection
	Formats            FormatMap
	ConditionalFormats FormatMap
	Settings           Settings

	rawSections []rawSection
	rawSettings map[string]any
}

type rawSection struct {
	name string
	data map[string]any
}

// New builds a template from raw document mappings. The sections are given
// as ordered name/description pairs.
func New(
	sections []NamedRawSection,
	formats map[string]Format,
	conditionalFormats map[string]Format,
	settings map[string]any,
) (*Template, error) {
	t := &Template{
		Formats:            FormatMap{},
		ConditionalFormats: FormatMap{},
		rawSettings:        settings,
	}
	for name, format := range formats {
		t.Formats[name] = format.Copy()
	}
	for name, format := range conditionalFormats {
		t.ConditionalFormats[name] = format.Copy()
	}

	parsed, err := parseSettings(settings)
	if err != nil {
		return nil, err
	}
	t.Settings = parsed

	for _, raw := range sections {
		section, err := ParseSection(raw.Data)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", raw.Name, err)
		}
		t.Sections = append(t.Sections, NamedSection{Name: raw.Name, Section: section})
		t.rawSections = append(t.rawSections, rawSection{name: raw.Name, data: raw.Data})
	}
	return t, nil
}

// NamedRawSection is a section description paired with its name, used to
// construct templates while preserving definition order.
type NamedRawSection struct {
	Name string
	Data map[string]any
}

// Parse decodes a YAML template document. Section definition order is
// preserved.
func Parse(doc []byte) (*Template, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return New(nil, nil, nil, nil)
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse template: document root must be a mapping")
	}

	var sections []NamedRawSection
	formats := map[string]Format{}
	conditionalFormats := map[string]Format{}
	settings := map[string]any{}

	for i := 0; i < len(mapping.Content)-1; i += 2 {
		keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]
		switch keyNode.Value {
		case "sections":
			parsed, err := decodeOrderedSections(valueNode)
			if err != nil {
				return nil, err
			}
			sections = parsed
		case "formats":
			if err := valueNode.Decode(&formats); err != nil {
				return nil, fmt.Errorf("parse formats: %w", err)
			}
		case "conditional_formats":
			if err := valueNode.Decode(&conditionalFormats); err != nil {
				return nil, fmt.Errorf("parse conditional_formats: %w", err)
			}
		case "settings":
			if err := valueNode.Decode(&settings); err != nil {
				return nil, fmt.Errorf("parse settings: %w", err)
			}
		default:
			return nil, fmt.Errorf("parse template: unknown document entry %q", keyNode.Value)
		}
	}
	return New(sections, formats, conditionalFormats, settings)
}

func decodeOrderedSections(node *yaml.Node) ([]NamedRawSection, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse sections: expected a mapping")
	}
	var sections []NamedRawSection
	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		data := map[string]any{}
		if err := valueNode.Decode(&data); err != nil {
			return nil, fmt.Errorf("parse section %q: %w", keyNode.Value, err)
		}
		sections = append(sections, NamedRawSection{Name: keyNode.Value, Data: data})
	}
	return sections, nil
}

// Load reads and parses a YAML template file.
func Load(path string) (*Template, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Section returns the section with the given name.
func (t *Template) Section(name string) (Section, bool) {
	for _, named := range t.Sections {
		if named.Name == name {
			return named.Section, true
		}
	}
	return nil, false
}

// Document returns the YAML representation of the template, preserving
// section definition order.
func (t *Template) Document() ([]byte, error) {
	sections := &yaml.Node{Kind: yaml.MappingNode}
	for _, raw := range t.rawSections {
		var value yaml.Node
		if err := value.Encode(raw.data); err != nil {
			return nil, err
		}
		sections.Content = append(sections.Content,
			scalarNode(raw.name), &value)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	appendEntry := func(name string, value any) error {
		var node yaml.Node
		if err := node.Encode(value); err != nil {
			return err
		}
		root.Content = append(root.Content, scalarNode(name), &node)
		return nil
	}

	root.Content = append(root.Content, scalarNode("sections"), sections)
	if err := appendEntry("formats", t.Formats); err != nil {
		return nil, err
	}
	if err := appendEntry("conditional_formats", t.ConditionalFormats); err != nil {
		return nil, err
	}
	rawSettings := t.rawSettings
	if rawSettings == nil {
		rawSettings = map[string]any{}
	}
	if err := appendEntry("settings", rawSettings); err != nil {
		return nil, err
	}
	return yaml.Marshal(root)
}

// Save writes the template to a YAML file.
func (t *Template) Save(path string) error {
	doc, err := t.Document()
	if err != nil {
		return err
	}
	return os.WriteFile(path, doc, 0o644)
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}
