package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/doclave/doclave-api/internal/models"
)

// ExportService renders the analytics overview as downloadable files
type ExportService struct {
	analyticsSvc *AnalyticsService
}

func NewExportService(analyticsSvc *AnalyticsService) *ExportService {
	return &ExportService{analyticsSvc: analyticsSvc}
}

func (s *ExportService) ExportCSV(ctx context.Context, overview *models.AnalyticsOverview) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	// Header
	_ = writer.Write([]string{"Compliance Analytics Report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	// Summary Section
	_ = writer.Write([]string{"Summary"})
	_ = writer.Write([]string{"Metric", "Value"})
	_ = writer.Write([]string{"Total Documents", fmt.Sprintf("%d", overview.TotalDocuments)})
	_ = writer.Write([]string{"Deadline Completion Rate", fmt.Sprintf("%.2f%%", overview.DeadlineCompletionRate)})
	_ = writer.Write([]string{"Signatures Total", fmt.Sprintf("%d", overview.SignaturesTotal)})
	_ = writer.Write([]string{"Signatures This Month", fmt.Sprintf("%d", overview.SignaturesThisMonth)})
	_ = writer.Write([]string{""})

	// Status Breakdown Section
	_ = writer.Write([]string{"Documents by Status"})
	_ = writer.Write([]string{"Status", "Count", "Percentage"})
	for _, bucket := range overview.StatusBreakdown {
		_ = writer.Write([]string{
			bucket.Status,
			fmt.Sprintf("%d", bucket.Count),
			fmt.Sprintf("%.2f%%", bucket.Percentage),
		})
	}
	_ = writer.Write([]string{""})

	// Trend Section
	_ = writer.Write([]string{"Documents Created per Month"})
	_ = writer.Write([]string{"Month", "Count"})
	for _, point := range overview.CreationTrend {
		_ = writer.Write([]string{point.Label, fmt.Sprintf("%d", point.Count)})
	}

	writer.Flush()

	filename := fmt.Sprintf("analytics_report_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, overview *models.AnalyticsOverview) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Analytics"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Compliance Analytics Report")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Summary")
	_ = f.SetCellValue(sheet, "A4", "Metric")
	_ = f.SetCellValue(sheet, "B4", "Value")

	_ = f.SetCellValue(sheet, "A5", "Total Documents")
	_ = f.SetCellValue(sheet, "B5", overview.TotalDocuments)
	_ = f.SetCellValue(sheet, "A6", "Deadline Completion Rate")
	_ = f.SetCellValue(sheet, "B6", fmt.Sprintf("%.2f%%", overview.DeadlineCompletionRate))
	_ = f.SetCellValue(sheet, "A7", "Signatures Total")
	_ = f.SetCellValue(sheet, "B7", overview.SignaturesTotal)
	_ = f.SetCellValue(sheet, "A8", "Signatures This Month")
	_ = f.SetCellValue(sheet, "B8", overview.SignaturesThisMonth)

	_ = f.SetCellValue(sheet, "A10", "Documents by Status")
	_ = f.SetCellValue(sheet, "A11", "Status")
	_ = f.SetCellValue(sheet, "B11", "Count")
	_ = f.SetCellValue(sheet, "C11", "Percentage")

	row := 12
	for _, bucket := range overview.StatusBreakdown {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), bucket.Status)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), bucket.Count)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f%%", bucket.Percentage))
		row++
	}

	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Documents Created per Month")
	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Month")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Count")
	row++
	for _, point := range overview.CreationTrend {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), point.Label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), point.Count)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("analytics_report_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportPDF(ctx context.Context, overview *models.AnalyticsOverview) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Compliance Analytics Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Total Documents:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", overview.TotalDocuments))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Deadline Completion Rate:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f%%", overview.DeadlineCompletionRate))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Signatures Total:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", overview.SignaturesTotal))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Signatures This Month:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", overview.SignaturesThisMonth))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Documents by Status")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, bucket := range overview.StatusBreakdown {
		pdf.Cell(60, 10, bucket.Status+":")
		pdf.Cell(40, 10, fmt.Sprintf("%d (%.2f%%)", bucket.Count, bucket.Percentage))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Documents Created per Month")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, point := range overview.CreationTrend {
		pdf.Cell(60, 10, point.Label+":")
		pdf.Cell(40, 10, fmt.Sprintf("%d", point.Count))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	err := pdf.Output(buf)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("analytics_report_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
