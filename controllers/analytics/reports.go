package analyticsController

import (
	"fmt"
	"os"
	"otms/config"
	"otms/database"
	"otms/middleware"
	"otms/utils"
	analyticsValidator "otms/validators/analytics"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReportSection is one tabular block of a generated report. The same
// sections feed the PDF renderer, the JSON report and the file exports.
type ReportSection struct {
	Title  string     `json:"title"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

type Report struct {
	Title       string          `json:"title"`
	GeneratedAt time.Time       `json:"generated_at"`
	Sections    []ReportSection `json:"sections"`
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 2, 64) + "%"
}

func buildEnrollmentSections(db *gorm.DB, f *analyticsValidator.Filter) ([]ReportSection, error) {
	series, err := EnrollmentTrendSeries(db, f)
	if err != nil {
		return nil, err
	}

	trendRows := make([][]string, 0, len(series))
	for _, point := range series {
		trendRows = append(trendRows, []string{
			point.Bucket,
			strconv.Itoa(point.Count),
			strconv.Itoa(point.Completed),
			strconv.Itoa(point.Dropped),
		})
	}

	return []ReportSection{{
		Title:  "Enrollment Trends",
		Header: []string{"Period", "Enrollments", "Completed", "Dropped"},
		Rows:   trendRows,
	}}, nil
}

func buildCompletionSections(db *gorm.DB, f *analyticsValidator.Filter) ([]ReportSection, error) {
	rates, err := CompletionRateData(db, f)
	if err != nil {
		return nil, err
	}

	courseRows := make([][]string, 0, len(rates.ByCourse))
	for _, entry := range rates.ByCourse {
		courseRows = append(courseRows, []string{
			entry.Title,
			strconv.FormatInt(entry.Total, 10),
			strconv.FormatInt(entry.Completed, 10),
			formatRate(entry.CompletionRate),
		})
	}

	orgRows := make([][]string, 0, len(rates.ByOrganization))
	for _, entry := range rates.ByOrganization {
		orgRows = append(orgRows, []string{
			entry.Name,
			strconv.FormatInt(entry.Total, 10),
			strconv.FormatInt(entry.Completed, 10),
			formatRate(entry.CompletionRate),
		})
	}

	return []ReportSection{
		{
			Title:  "Overall Completion",
			Header: []string{"Total Enrollments", "Completed", "Completion Rate"},
			Rows: [][]string{{
				strconv.FormatInt(rates.Total, 10),
				strconv.FormatInt(rates.Completed, 10),
				formatRate(rates.OverallRate),
			}},
		},
		{
			Title:  "Completion by Course",
			Header: []string{"Course", "Enrollments", "Completed", "Rate"},
			Rows:   courseRows,
		},
		{
			Title:  "Completion by Organization",
			Header: []string{"Organization", "Enrollments", "Completed", "Rate"},
			Rows:   orgRows,
		},
	}, nil
}

func buildFeedbackSections(db *gorm.DB, f *analyticsValidator.Filter) ([]ReportSection, error) {
	trends, err := FeedbackTrendData(db, f)
	if err != nil {
		return nil, err
	}

	monthlyRows := make([][]string, 0, len(trends.Monthly))
	for _, point := range trends.Monthly {
		monthlyRows = append(monthlyRows, []string{
			point.Bucket,
			strconv.FormatFloat(point.AverageRating, 'f', 2, 64),
			strconv.Itoa(point.Count),
		})
	}

	histogramRows := make([][]string, 0, 5)
	for rating := 1; rating <= 5; rating++ {
		histogramRows = append(histogramRows, []string{
			strconv.Itoa(rating),
			strconv.FormatInt(trends.Histogram[rating], 10),
		})
	}

	topRows := make([][]string, 0, len(trends.TopCourses))
	for _, course := range trends.TopCourses {
		topRows = append(topRows, []string{
			course.Title,
			strconv.FormatFloat(course.AverageRating, 'f', 2, 64),
			strconv.Itoa(course.Count),
		})
	}

	return []ReportSection{
		{
			Title:  "Average Ratings Over Time",
			Header: []string{"Period", "Average Rating", "Responses"},
			Rows:   monthlyRows,
		},
		{
			Title:  "Rating Distribution",
			Header: []string{"Rating", "Count"},
			Rows:   histogramRows,
		},
		{
			Title:  "Top Rated Courses",
			Header: []string{"Course", "Average Rating", "Responses"},
			Rows:   topRows,
		},
	}, nil
}

// buildReport assembles the requested report. The comprehensive variant
// runs the three dataset builders concurrently.
func buildReport(db *gorm.DB, reportType string, f *analyticsValidator.Filter) (*Report, error) {
	report := &Report{GeneratedAt: time.Now()}

	switch reportType {
	case "enrollment":
		report.Title = "Enrollment Report"
		sections, err := buildEnrollmentSections(db, f)
		if err != nil {
			return nil, err
		}
		report.Sections = sections
	case "completion":
		report.Title = "Completion Report"
		sections, err := buildCompletionSections(db, f)
		if err != nil {
			return nil, err
		}
		report.Sections = sections
	case "feedback":
		report.Title = "Feedback Report"
		sections, err := buildFeedbackSections(db, f)
		if err != nil {
			return nil, err
		}
		report.Sections = sections
	case "comprehensive":
		report.Title = "Comprehensive Training Report"

		var wg sync.WaitGroup
		var enrollment, completion, feedback []ReportSection
		errs := make([]error, 3)

		wg.Add(3)
		go func() {
			defer wg.Done()
			enrollment, errs[0] = buildEnrollmentSections(db, f)
		}()
		go func() {
			defer wg.Done()
			completion, errs[1] = buildCompletionSections(db, f)
		}()
		go func() {
			defer wg.Done()
			feedback, errs[2] = buildFeedbackSections(db, f)
		}()
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		report.Sections = append(report.Sections, enrollment...)
		report.Sections = append(report.Sections, completion...)
		report.Sections = append(report.Sections, feedback...)
	default:
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}

	return report, nil
}

// renderReportPDF lays out the report sections as tables, one section
// after another with page breaks handled by fpdf
func renderReportPDF(report *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, report.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, "Generated "+report.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	for _, section := range report.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 10, section.Title, "", 1, "L", false, 0, "")

		colWidth := usable / float64(len(section.Header))

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range section.Header {
			pdf.CellFormat(colWidth, 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, row := range section.Rows {
			for _, cell := range row {
				pdf.CellFormat(colWidth, 6, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	return pdf.OutputFileAndClose(path)
}

// GenerateReport handles POST /api/analytics/reports/generate
func GenerateReport(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGenerateReport").(*analyticsValidator.GenerateReportRequest)
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

	report, err := buildReport(database.Database.Db, reqData.ReportType, filter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate report!", nil)
	}

	format := reqData.Format
	if format == "" {
		format = "pdf"
	}

	stamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("%s-report-%s.%s", reqData.ReportType, stamp, format)
	path := filepath.Join(config.AppConfig.ExportDir, filename)

	switch format {
	case "pdf":
		err = renderReportPDF(report, path)
	case "json":
		err = utils.WriteJSON(path, report)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to write report file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Report generated successfully!", fiber.Map{
		"filename":     filename,
		"format":       format,
		"report_type":  reqData.ReportType,
		"download_url": "/api/analytics/download/" + filename,
		"generated_at": report.GeneratedAt,
	})
}
