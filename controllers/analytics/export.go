package analyticsController

import (
	"fmt"
	"otms/config"
	"otms/database"
	"otms/middleware"
	"otms/utils"
	analyticsValidator "otms/validators/analytics"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func sectionsToSheets(sections []ReportSection) []utils.ExcelSheet {
	sheets := make([]utils.ExcelSheet, 0, len(sections))
	used := make(map[string]bool)
	for _, section := range sections {
		// sheet names are capped at 31 chars and must be unique
		name := section.Title
		if len(name) > 31 {
			name = name[:31]
		}
		for used[name] {
			name = name[:len(name)-1] + "_"
		}
		used[name] = true

		rows := make([][]interface{}, 0, len(section.Rows)+1)
		header := make([]interface{}, len(section.Header))
		for i, h := range section.Header {
			header[i] = h
		}
		rows = append(rows, header)
		for _, row := range section.Rows {
			cells := make([]interface{}, len(row))
			for i, cell := range row {
				cells[i] = cell
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, utils.ExcelSheet{Name: name, Rows: rows})
	}
	return sheets
}

func sectionsToCSV(sections []ReportSection) ([]string, [][]string) {
	if len(sections) == 1 {
		return sections[0].Header, sections[0].Rows
	}

	// a flat file gets section markers between blocks
	header := []string{"Section", "Data"}
	rows := [][]string{}
	for _, section := range sections {
		rows = append(rows, []string{section.Title, strings.Join(section.Header, " | ")})
		for _, row := range section.Rows {
			rows = append(rows, []string{"", strings.Join(row, " | ")})
		}
	}
	return header, rows
}

// ExportData handles POST /api/analytics/export
func ExportData(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedExport").(*analyticsValidator.ExportRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	filter := &analyticsValidator.Filter{
		StartDate:      analyticsValidator.ParseDate(reqData.StartDate),
		EndDate:        analyticsValidator.ParseDate(reqData.EndDate),
		CourseID:       reqData.CourseID,
		OrganizationID: reqData.OrgID,
		Period:         reqData.Period,
	}

	report, err := buildReport(database.Database.Db, reqData.DataType, filter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build export data!", nil)
	}

	ext := reqData.Format
	if ext == "excel" {
		ext = "xlsx"
	}
	stamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("%s-export-%s.%s", reqData.DataType, stamp, ext)
	path := filepath.Join(config.AppConfig.ExportDir, filename)

	switch reqData.Format {
	case "csv":
		header, rows := sectionsToCSV(report.Sections)
		err = utils.WriteCSV(path, header, rows)
	case "excel":
		err = utils.WriteExcel(path, sectionsToSheets(report.Sections))
	case "json":
		err = utils.WriteJSON(path, report)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to write export file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Export created successfully!", fiber.Map{
		"filename":     filename,
		"format":       reqData.Format,
		"data_type":    reqData.DataType,
		"download_url": "/api/analytics/download/" + filename,
	})
}

// DownloadReport handles GET /api/analytics/download/:filename.
// The filename is restricted to its base name so the handler cannot be
// walked out of the export directory.
func DownloadReport(c *fiber.Ctx) error {
	filename := filepath.Base(c.Params("filename"))
	if filename == "" || filename == "." || filename == ".." {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid filename!", nil)
	}

	path := filepath.Join(config.AppConfig.ExportDir, filename)
	c.Set("Content-Type", utils.ContentTypeByExtension(filename))
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.SendFile(path)
}

// GetExportHistory handles GET /api/analytics/exports
func GetExportHistory(c *fiber.Ctx) error {
	files, err := utils.ListExports(config.AppConfig.ExportDir)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to list exports!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exports fetched successfully!", fiber.Map{
		"exports": files,
		"count":   len(files),
	})
}
