package writer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/minhkhoavo/xlsxreport/pkg/template"
)

// styleCache deduplicates excelize style registration. Identical format
// descriptions resolve to the same style ID, which keeps the workbook's
// style table small when every data cell of a column carries a style.
type styleCache struct {
	file   *excelize.File
	styles map[string]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{file: f, styles: map[string]int{}}
}

// styleID returns the excelize style ID for a format description,
// registering it on first use.
func (c *styleCache) styleID(format template.Format) (int, error) {
	key := formatKey(format)
	if id, ok := c.styles[key]; ok {
		return id, nil
	}
	style, err := styleFromFormat(format)
	if err != nil {
		return 0, err
	}
	id, err := c.file.NewStyle(style)
	if err != nil {
		return 0, err
	}
	c.styles[key] = id
	return id, nil
}

func formatKey(format template.Format) string {
	keys := make([]string, 0, len(format))
	for k := range format {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%v;", k, format[k])
	}
	return b.String()
}

// styleFromFormat translates a template format description into an
// excelize style. The description uses the xlsx-writer key vocabulary
// the template files are written in.
func styleFromFormat(format template.Format) (*excelize.Style, error) {
	style := &excelize.Style{}
	font := excelize.Font{}
	alignment := excelize.Alignment{}
	hasFont, hasAlignment := false, false

	for key, value := range format {
		switch key {
		case "bold":
			font.Bold = boolOf(value)
			hasFont = true
		case "italic":
			font.Italic = boolOf(value)
			hasFont = true
		case "underline":
			if boolOf(value) {
				font.Underline = "single"
				hasFont = true
			}
		case "font_size":
			if size, ok := floatOf(value); ok {
				font.Size = size
				hasFont = true
			}
		case "font_name":
			font.Family = stringOf(value)
			hasFont = true
		case "font_color":
			font.Color = hexColor(value)
			hasFont = true
		case "align":
			alignment.Horizontal = stringOf(value)
			hasAlignment = true
		case "valign":
			alignment.Vertical = valign(value)
			hasAlignment = true
		case "text_wrap":
			alignment.WrapText = boolOf(value)
			hasAlignment = true
		case "num_format":
			style.CustomNumFmt = stringPtr(stringOf(value))
		case "bg_color", "fg_color":
			style.Fill = excelize.Fill{
				Type:    "pattern",
				Color:   []string{hexColor(value)},
				Pattern: 1,
			}
		case "border":
			if weight, ok := intOf(value); ok {
				style.Border = borderEdges(style.Border, weight, "left", "right", "top", "bottom")
			}
		case "left", "right", "top", "bottom":
			if weight, ok := intOf(value); ok {
				style.Border = borderEdges(style.Border, weight, key)
			}
		default:
			return nil, fmt.Errorf("unsupported format attribute %q", key)
		}
	}

	if hasFont {
		style.Font = &font
	}
	if hasAlignment {
		style.Alignment = &alignment
	}
	return style, nil
}

func borderEdges(borders []excelize.Border, weight int, edges ...string) []excelize.Border {
	kept := borders[:0]
	for _, b := range borders {
		replaced := false
		for _, edge := range edges {
			if b.Type == edge {
				replaced = true
				break
			}
		}
		if !replaced {
			kept = append(kept, b)
		}
	}
	for _, edge := range edges {
		kept = append(kept, excelize.Border{Type: edge, Style: weight, Color: "000000"})
	}
	return kept
}

// conditionalOptions translates a conditional format description into
// excelize conditional format options. Color scales default their
// endpoint types to the column minimum and maximum.
func conditionalOptions(format template.Format) (excelize.ConditionalFormatOptions, error) {
	options := excelize.ConditionalFormatOptions{
		MinType: "min",
		MidType: "percentile",
		MaxType: "max",
	}
	for key, value := range format {
		switch key {
		case "type":
			options.Type = stringOf(value)
		case "criteria":
			options.Criteria = stringOf(value)
		case "value":
			options.Value = fmt.Sprintf("%v", value)
		case "min_type":
			options.MinType = stringOf(value)
		case "mid_type":
			options.MidType = stringOf(value)
		case "max_type":
			options.MaxType = stringOf(value)
		case "min_value":
			options.MinValue = fmt.Sprintf("%v", value)
		case "mid_value":
			options.MidValue = fmt.Sprintf("%v", value)
		case "max_value":
			options.MaxValue = fmt.Sprintf("%v", value)
		case "min_color":
			options.MinColor = hexColor(value)
		case "mid_color":
			options.MidColor = hexColor(value)
		case "max_color":
			options.MaxColor = hexColor(value)
		case "bar_color":
			options.BarColor = hexColor(value)
		default:
			return options, fmt.Errorf("unsupported conditional format attribute %q", key)
		}
	}
	if options.Type == "" {
		return options, fmt.Errorf("conditional format is missing the %q attribute", "type")
	}
	return options, nil
}

// pixelsToWidth converts a column width in pixels to the character based
// width excelize expects. The factor matches the 7 pixel digit width of
// the default 11pt Calibri font, with the 5 pixel cell padding removed.
func pixelsToWidth(pixels float64) float64 {
	width := (pixels - 5) / 7
	if width < 0 {
		return 0
	}
	return width
}

func hexColor(value any) string {
	return strings.TrimPrefix(stringOf(value), "#")
}

func valign(value any) string {
	// xlsx templates use "vcenter", excelize expects "center"
	s := stringOf(value)
	if s == "vcenter" {
		return "center"
	}
	return s
}

func stringOf(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func boolOf(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	}
	return false
}

func intOf(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func floatOf(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func stringPtr(s string) *string {
	return &s
}
