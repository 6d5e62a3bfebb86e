package template

// Format describes the visual style of cells, headers or conditional rules
// as a mapping of xlsx style attributes, e.g. {"bold": true, "align": "left",
// "num_format": "@"}. Formats are looked up by name from a template's
// formats or conditional_formats mapping.
type Format map[string]any

// Copy returns an independent copy of the format. Callers receiving formats
// from a template must never share the underlying map.
func (f Format) Copy() Format {
	out := make(Format, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}

// Merge returns a copy of the format with all entries of the override
// applied on top, key by key.
func (f Format) Merge(override Format) Format {
	out := f.Copy()
	for key, value := range override {
		out[key] = value
	}
	return out
}

// FormatMap is a named collection of format descriptions.
type FormatMap map[string]Format

// Get returns a copy of the named format. A missing name resolves to the
// given fallback, or an empty format when none is supplied.
func (m FormatMap) Get(name string, fallback Format) Format {
	if format, ok := m[name]; ok {
		return format.Copy()
	}
	if fallback != nil {
		return fallback.Copy()
	}
	return Format{}
}

// Copy returns an independent copy of the map with copied format values.
func (m FormatMap) Copy() FormatMap {
	out := make(FormatMap, len(m))
	for name, format := range m {
		out[name] = format.Copy()
	}
	return out
}
