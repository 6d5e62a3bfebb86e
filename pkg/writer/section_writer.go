package writer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/minhkhoavo/xlsxreport/pkg/compiler"
	"github.com/minhkhoavo/xlsxreport/pkg/template"
)

// SectionWriter renders compiled sections onto one worksheet, left to
// right in section order. The sheet layout is an optional merged
// supheader row, a header row, and the data rows below.
type SectionWriter struct {
	file     *excelize.File
	sheet    string
	settings template.Settings
	styles   *styleCache
}

// NewSectionWriter creates a writer for a worksheet. The sheet must
// already exist in the file.
func NewSectionWriter(f *excelize.File, sheet string, settings template.Settings) *SectionWriter {
	return &SectionWriter{
		file:     f,
		sheet:    sheet,
		settings: settings,
		styles:   newStyleCache(f),
	}
}

// WriteSections writes all sections and applies the sheet level options:
// row heights, freeze panes, autofilter, and column grouping for hidden
// sections.
func (w *SectionWriter) WriteSections(sections []*compiler.CompiledSection) error {
	headerRow := 1
	if w.settings.WriteSupheader {
		headerRow = 2
	}

	col := 1
	lastRow := headerRow
	var hidden [][2]int
	for _, section := range sections {
		endCol, endRow, err := w.writeSection(section, col, headerRow)
		if err != nil {
			return err
		}
		if section.HideSection {
			hidden = append(hidden, [2]int{col, endCol})
		}
		if endRow > lastRow {
			lastRow = endRow
		}
		col = endCol + 1
	}
	lastCol := col - 1

	if err := w.setRowHeights(headerRow); err != nil {
		return err
	}
	if err := w.freezePanes(headerRow); err != nil {
		return err
	}
	if w.settings.AddAutofilter && lastCol >= 1 {
		if err := w.autofilter(headerRow, lastRow, lastCol); err != nil {
			return err
		}
	}
	for _, span := range hidden {
		if err := w.hideColumns(span[0], span[1]); err != nil {
			return err
		}
	}
	return nil
}

// writeSection renders one section starting at startCol and returns the
// last column and last data row it occupied.
func (w *SectionWriter) writeSection(
	section *compiler.CompiledSection, startCol, headerRow int,
) (int, int, error) {
	columns := section.Columns()
	endCol := startCol + len(columns) - 1
	lastRow := headerRow + section.Data.NumRows()

	if w.settings.WriteSupheader {
		if err := w.writeSupheader(section, startCol, endCol); err != nil {
			return 0, 0, err
		}
	}

	for i, name := range columns {
		colNum := startCol + i
		if err := w.writeHeader(section, name, colNum, headerRow); err != nil {
			return 0, 0, err
		}
		if err := w.writeColumnData(section, name, colNum, headerRow); err != nil {
			return 0, 0, err
		}
		if err := w.setColumnWidth(section.ColumnWidths[name], colNum); err != nil {
			return 0, 0, err
		}
		conditional := section.ColumnConditionalFormats[name]
		if len(conditional) > 0 && section.Data.NumRows() > 0 {
			if err := w.conditionalFormat(conditional, colNum, colNum, headerRow+1, lastRow); err != nil {
				return 0, 0, err
			}
		}
	}

	if len(section.SectionConditionalFormat) > 0 && section.Data.NumRows() > 0 {
		err := w.conditionalFormat(section.SectionConditionalFormat, startCol, endCol, headerRow+1, lastRow)
		if err != nil {
			return 0, 0, err
		}
	}
	return endCol, lastRow, nil
}

func (w *SectionWriter) writeSupheader(section *compiler.CompiledSection, startCol, endCol int) error {
	if section.Supheader == "" {
		return nil
	}
	first, err := excelize.CoordinatesToCellName(startCol, 1)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(endCol, 1)
	if err != nil {
		return err
	}
	if err := w.file.SetCellValue(w.sheet, first, section.Supheader); err != nil {
		return err
	}
	if endCol > startCol {
		if err := w.file.MergeCell(w.sheet, first, last); err != nil {
			return err
		}
	}
	styleID, err := w.styles.styleID(section.SupheaderFormat)
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(w.sheet, first, last, styleID)
}

func (w *SectionWriter) writeHeader(section *compiler.CompiledSection, name string, colNum, headerRow int) error {
	cell, err := excelize.CoordinatesToCellName(colNum, headerRow)
	if err != nil {
		return err
	}
	if err := w.file.SetCellValue(w.sheet, cell, section.Headers[name]); err != nil {
		return err
	}
	styleID, err := w.styles.styleID(section.HeaderFormats[name])
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(w.sheet, cell, cell, styleID)
}

func (w *SectionWriter) writeColumnData(section *compiler.CompiledSection, name string, colNum, headerRow int) error {
	values, err := section.Data.Column(name)
	if err != nil {
		return err
	}
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(colNum, headerRow+1+i)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, value); err != nil {
			return err
		}
	}
	if len(values) == 0 {
		return nil
	}
	styleID, err := w.styles.styleID(section.ColumnFormats[name])
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(colNum, headerRow+1)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(colNum, headerRow+len(values))
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(w.sheet, first, last, styleID)
}

func (w *SectionWriter) setColumnWidth(pixels float64, colNum int) error {
	colName, err := excelize.ColumnNumberToName(colNum)
	if err != nil {
		return err
	}
	return w.file.SetColWidth(w.sheet, colName, colName, pixelsToWidth(pixels))
}

func (w *SectionWriter) conditionalFormat(
	format template.Format, startCol, endCol, startRow, endRow int,
) error {
	options, err := conditionalOptions(format)
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(startCol, startRow)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(endCol, endRow)
	if err != nil {
		return err
	}
	rangeRef := fmt.Sprintf("%s:%s", first, last)
	return w.file.SetConditionalFormat(w.sheet, rangeRef, []excelize.ConditionalFormatOptions{options})
}

func (w *SectionWriter) setRowHeights(headerRow int) error {
	// template heights are pixels, excelize row heights are points
	if w.settings.WriteSupheader {
		if err := w.file.SetRowHeight(w.sheet, 1, w.settings.SupheaderHeight*0.75); err != nil {
			return err
		}
	}
	return w.file.SetRowHeight(w.sheet, headerRow, w.settings.HeaderHeight*0.75)
}

func (w *SectionWriter) freezePanes(headerRow int) error {
	freezeCols := w.settings.FreezeCols
	if freezeCols < 0 {
		freezeCols = 0
	}
	topLeft, err := excelize.CoordinatesToCellName(freezeCols+1, headerRow+1)
	if err != nil {
		return err
	}
	return w.file.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      freezeCols,
		YSplit:      headerRow,
		TopLeftCell: topLeft,
		ActivePane:  "bottomRight",
	})
}

func (w *SectionWriter) autofilter(headerRow, lastRow, lastCol int) error {
	first, err := excelize.CoordinatesToCellName(1, headerRow)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(lastCol, lastRow)
	if err != nil {
		return err
	}
	rangeRef := fmt.Sprintf("%s:%s", first, last)
	return w.file.AutoFilter(w.sheet, rangeRef, nil)
}

// hideColumns groups a column span at outline level one, collapsed and
// hidden, so hidden sections stay expandable in the workbook.
func (w *SectionWriter) hideColumns(startCol, endCol int) error {
	for colNum := startCol; colNum <= endCol; colNum++ {
		colName, err := excelize.ColumnNumberToName(colNum)
		if err != nil {
			return err
		}
		if err := w.file.SetColOutlineLevel(w.sheet, colName, 1); err != nil {
			return err
		}
		if err := w.file.SetColVisible(w.sheet, colName, false); err != nil {
			return err
		}
	}
	return nil
}
