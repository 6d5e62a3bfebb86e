package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/minhkhoavo/xlsxreport/pkg/compiler"
	"github.com/minhkhoavo/xlsxreport/pkg/table"
	"github.com/minhkhoavo/xlsxreport/pkg/template"
)

const maxSheetNameLength = 31

const contentsSheetName = "Contents"

// characters Excel rejects anywhere in a sheet name
var forbiddenSheetNameChars = []string{"[", "]", ":", "*", "?", "/", "\\"}

// Tab pairs a table with the template that renders it into one
// worksheet.
type Tab struct {
	Name     string
	Color    string
	Table    *table.Table
	Template *template.Template
}

// ReportBuilder assembles a multi-tab report workbook, optionally with a
// table of contents sheet linking to every tab.
type ReportBuilder struct {
	tabs         []Tab
	withContents bool
}

// NewReportBuilder returns an empty builder.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{}
}

// AddTab appends a worksheet to the report. Tabs are written in the
// order they were added.
func (b *ReportBuilder) AddTab(tab Tab) error {
	if err := ValidateSheetName(tab.Name); err != nil {
		return err
	}
	for _, existing := range b.tabs {
		if strings.EqualFold(existing.Name, tab.Name) {
			return fmt.Errorf("duplicate sheet name %q", tab.Name)
		}
	}
	b.tabs = append(b.tabs, tab)
	return nil
}

// WithTableOfContents enables a leading sheet with internal links to all
// tabs.
func (b *ReportBuilder) WithTableOfContents() *ReportBuilder {
	b.withContents = true
	return b
}

// Build compiles every tab and renders the workbook.
func (b *ReportBuilder) Build() (*excelize.File, error) {
	if len(b.tabs) == 0 {
		return nil, fmt.Errorf("report has no tabs")
	}

	f := excelize.NewFile()
	// the first sheet is either the contents sheet or the first tab
	if b.withContents {
		if err := f.SetSheetName("Sheet1", contentsSheetName); err != nil {
			return nil, err
		}
	}
	for i, tab := range b.tabs {
		if i == 0 && !b.withContents {
			if err := f.SetSheetName("Sheet1", tab.Name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(tab.Name); err != nil {
				return nil, err
			}
		}
		if tab.Color != "" {
			color := strings.TrimPrefix(tab.Color, "#")
			err := f.SetSheetProps(tab.Name, &excelize.SheetPropsOptions{TabColorRGB: &color})
			if err != nil {
				return nil, err
			}
		}

		sections, err := compiler.PrepareCompiledSections(tab.Template, tab.Table)
		if err != nil {
			return nil, fmt.Errorf("compile sheet %q: %w", tab.Name, err)
		}
		writer := NewSectionWriter(f, tab.Name, tab.Template.Settings)
		if err := writer.WriteSections(sections); err != nil {
			return nil, fmt.Errorf("write sheet %q: %w", tab.Name, err)
		}
	}

	if b.withContents {
		if err := b.writeTableOfContents(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// SaveAs builds the workbook and writes it to a file.
func (b *ReportBuilder) SaveAs(path string) error {
	f, err := b.Build()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteTo builds the workbook and streams it to a writer.
func (b *ReportBuilder) WriteTo(w io.Writer) error {
	f, err := b.Build()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func (b *ReportBuilder) writeTableOfContents(f *excelize.File) error {
	const sheet = contentsSheetName
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return err
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, "A1", "Contents"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}
	for i, tab := range b.tabs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, tab.Name); err != nil {
			return err
		}
		location := fmt.Sprintf("'%s'!A1", tab.Name)
		if err := f.SetCellHyperLink(sheet, cell, location, "Location"); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, linkStyle); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 40)
}

// ValidateSheetName reports whether a name is usable as an xlsx sheet
// name: non-empty, at most 31 characters, no forbidden characters, no
// leading or trailing apostrophe, and not the reserved name "History".
func ValidateSheetName(name string) error {
	if name == "" {
		return fmt.Errorf("sheet name is empty")
	}
	if len(name) > maxSheetNameLength {
		return fmt.Errorf("sheet name %q exceeds %d characters", name, maxSheetNameLength)
	}
	for _, c := range forbiddenSheetNameChars {
		if strings.Contains(name, c) {
			return fmt.Errorf("sheet name %q contains forbidden character %q", name, c)
		}
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("sheet name %q starts or ends with an apostrophe", name)
	}
	if strings.EqualFold(name, "history") {
		return fmt.Errorf("sheet name %q is reserved", name)
	}
	return nil
}
