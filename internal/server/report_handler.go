package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minhkhoavo/xlsxreport/internal/appdir"
	"github.com/minhkhoavo/xlsxreport/internal/logger"
	"github.com/minhkhoavo/xlsxreport/pkg/table"
	"github.com/minhkhoavo/xlsxreport/pkg/template"
	"github.com/minhkhoavo/xlsxreport/pkg/writer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

func (h *ReportHandler) HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListTemplatesHandler returns the template files available in the app
// directory.
func (h *ReportHandler) ListTemplatesHandler(c echo.Context) error {
	names, err := appdir.ListTemplates()
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to list templates", err)
	}
	return ResponseSuccess(c, http.StatusOK, "Templates retrieved successfully", names)
}

// CompileHandler compiles an uploaded CSV table against a report
// template and streams back the resulting xlsx workbook.
//
// Multipart form fields:
//   - table: the CSV file (required)
//   - template: an uploaded template file, or
//   - template_name: the name of a template in the app directory
//   - sep: the CSV delimiter, default tab
//   - sheet: the worksheet name, default "Report"
func (h *ReportHandler) CompileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	tableFile, err := c.FormFile("table")
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Missing table file", err)
	}
	tbl, err := readTableUpload(tableFile, c.FormValue("sep"))
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Failed to read table file", err)
	}

	tmpl, err := h.resolveTemplate(c)
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Failed to load template", err)
	}

	sheet := c.FormValue("sheet")
	if sheet == "" {
		sheet = "Report"
	}

	builder := writer.NewReportBuilder()
	if err := builder.AddTab(writer.Tab{Name: sheet, Table: tbl, Template: tmpl}); err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid sheet name", err)
	}

	logger.InfoLog(ctx, "Compiling report for table %s", tableFile.Filename)

	// compile before writing any response bytes so a failure can still
	// produce an error status
	report, err := builder.Build()
	if err != nil {
		return ResponseError(c, http.StatusUnprocessableEntity, "Failed to compile report", err)
	}
	defer report.Close()

	c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="report.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)
	if err := report.Write(c.Response()); err != nil {
		logger.ErrorLog(ctx, "Failed to stream report", err)
		return err
	}
	return nil
}

func (h *ReportHandler) resolveTemplate(c echo.Context) (*template.Template, error) {
	if upload, err := c.FormFile("template"); err == nil {
		file, err := upload.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		return template.Parse(content)
	}

	name := c.FormValue("template_name")
	if name == "" {
		return nil, fmt.Errorf("either a template file or a template_name is required")
	}
	path, err := appdir.LocateTemplate(name)
	if err != nil {
		return nil, err
	}
	return template.Load(path)
}

func readTableUpload(upload *multipart.FileHeader, sep string) (*table.Table, error) {
	file, err := upload.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	delimiter := '\t'
	if sep != "" {
		delimiter = []rune(sep)[0]
	}
	return table.ReadCSV(file, delimiter)
}
