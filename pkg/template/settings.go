package template

import "fmt"

// Settings holds the report level options of a template. Values missing from
// the template document keep their schema default.
type Settings struct {
	SupheaderHeight            float64 `yaml:"supheader_height"`
	HeaderHeight               float64 `yaml:"header_height"`
	ColumnWidth                float64 `yaml:"column_width"`
	Log2Tag                    string  `yaml:"log2_tag"`
	SampleExtractionTag        string  `yaml:"sample_extraction_tag"`
	AppendRemainingColumns     bool    `yaml:"append_remaining_columns"`
	WriteSupheader             bool    `yaml:"write_supheader"`
	EvaluateLog2Transformation bool    `yaml:"evaluate_log2_transformation"`
	RemoveDuplicateColumns     bool    `yaml:"remove_duplicate_columns"`
	AddAutofilter              bool    `yaml:"add_autofilter"`
	FreezeCols                 int     `yaml:"freeze_cols"`
}

// DefaultSettings returns the schema defaults for all settings.
func DefaultSettings() Settings {
	return Settings{
		SupheaderHeight:            20,
		HeaderHeight:               20,
		ColumnWidth:                64,
		Log2Tag:                    "",
		SampleExtractionTag:        "",
		AppendRemainingColumns:     false,
		WriteSupheader:             false,
		EvaluateLog2Transformation: false,
		RemoveDuplicateColumns:     true,
		AddAutofilter:              true,
		FreezeCols:                 1,
	}
}

// parseSettings applies the entries of a settings document on top of the
// schema defaults. Unrecognized keys are ignored here, the validation pass
// reports them as findings.
func parseSettings(doc map[string]any) (Settings, error) {
	settings := DefaultSettings()
	for key, value := range doc {
		var err error
		switch key {
		case "supheader_height":
			settings.SupheaderHeight, err = asFloat(value)
		case "header_height":
			settings.HeaderHeight, err = asFloat(value)
		case "column_width":
			settings.ColumnWidth, err = asFloat(value)
		case "log2_tag":
			settings.Log2Tag, err = asString(value)
		case "sample_extraction_tag":
			settings.SampleExtractionTag, err = asString(value)
		case "append_remaining_columns":
			settings.AppendRemainingColumns, err = asBool(value)
		case "write_supheader":
			settings.WriteSupheader, err = asBool(value)
		case "evaluate_log2_transformation":
			settings.EvaluateLog2Transformation, err = asBool(value)
		case "remove_duplicate_columns":
			settings.RemoveDuplicateColumns, err = asBool(value)
		case "add_autofilter":
			settings.AddAutofilter, err = asBool(value)
		case "freeze_cols":
			settings.FreezeCols, err = asInt(value)
		default:
			continue
		}
		if err != nil {
			return settings, fmt.Errorf("setting %q: %w", key, err)
		}
	}
	return settings, nil
}

func asFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", value)
}

func asInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("expected an integer, got %v", value)
}

func asString(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected a string, got %T", value)
}

func asBool(value any) (bool, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("expected a boolean, got %T", value)
}
