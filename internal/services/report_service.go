package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jung-kurt/gofpdf"

	"github.com/doclave/doclave-api/internal/repository"
)

// ReportService renders documents and their compliance evidence as files:
// the document itself as PDF, a signature certificate, and the audit trail
// as CSV.
type ReportService struct {
	documentRepo repository.DocumentRepository
	auditRepo    repository.AuditRepository
}

func NewReportService(
	documentRepo repository.DocumentRepository,
	auditRepo repository.AuditRepository,
) *ReportService {
	return &ReportService{
		documentRepo: documentRepo,
		auditRepo:    auditRepo,
	}
}

// GenerateDocumentPDF renders a document's content as a PDF
func (s *ReportService) GenerateDocumentPDF(ctx context.Context, documentID uint) (*bytes.Buffer, error) {
	document, err := s.documentRepo.FindByIDWithDetails(ctx, documentID)
	if err != nil {
		return nil, ErrNotFound
	}

	type SignerData struct {
		Name     string
		SignedAt string
	}

	var signers []SignerData
	for _, sig := range document.Signatures {
		signers = append(signers, SignerData{
			Name:     sig.User.FullName,
			SignedAt: sig.SignedAt.Format("02/01/2006 15:04"),
		})
	}

	approvedAt := ""
	if document.ApprovedAt != nil {
		approvedAt = document.ApprovedAt.Format("02/01/2006")
	}

	data := map[string]interface{}{
		"Title":      document.Title,
		"Content":    template.HTML(document.Content),
		"Status":     document.Status,
		"Version":    document.Version,
		"CreatedBy":  document.CreatedBy.FullName,
		"CreatedAt":  document.CreatedAt.Format("02/01/2006"),
		"ApprovedAt": approvedAt,
		"Signers":    signers,
		"Generated":  time.Now().Format("02/01/2006 15:04"),
	}

	return s.generatePDF("document.html", data)
}

// GenerateSignatureCertificate renders a one-page certificate listing every
// signature on a document with the captured request evidence
func (s *ReportService) GenerateSignatureCertificate(ctx context.Context, documentID uint) (*bytes.Buffer, error) {
	document, err := s.documentRepo.FindByIDWithDetails(ctx, documentID)
	if err != nil {
		return nil, ErrNotFound
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Signature Certificate")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, document.Title)
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 8, "Document ID:")
	pdf.Cell(40, 8, fmt.Sprintf("%d", document.ID))
	pdf.Ln(6)

	pdf.Cell(60, 8, "Status:")
	pdf.Cell(40, 8, document.Status)
	pdf.Ln(6)

	pdf.Cell(60, 8, "Version:")
	pdf.Cell(40, 8, fmt.Sprintf("%d", document.Version))
	pdf.Ln(6)

	pdf.Cell(60, 8, "Created by:")
	pdf.Cell(40, 8, document.CreatedBy.FullName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, fmt.Sprintf("Signatures (%d)", len(document.Signatures)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(document.Signatures) == 0 {
		pdf.Cell(40, 8, "No signatures recorded.")
		pdf.Ln(6)
	}
	for _, sig := range document.Signatures {
		pdf.Cell(60, 8, sig.User.FullName)
		pdf.Cell(60, 8, sig.SignedAt.Format("02/01/2006 15:04"))
		pdf.Cell(40, 8, sig.IPAddress)
		pdf.Ln(6)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(40, 8, fmt.Sprintf("Generated by Doclave on %s", time.Now().Format("02/01/2006 15:04")))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// GenerateAuditTrailCSV exports a document's complete audit trail
func (s *ReportService) GenerateAuditTrailCSV(ctx context.Context, documentID uint) (*bytes.Buffer, error) {
	if _, err := s.documentRepo.FindByID(ctx, documentID); err != nil {
		return nil, ErrNotFound
	}

	entries, err := s.auditRepo.FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"ID", "Timestamp", "User", "Action", "Details", "IP Address"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		record := []string{
			fmt.Sprintf("%d", entry.ID),
			entry.CreatedAt.Format(time.RFC3339),
			entry.User.FullName,
			entry.Action,
			entry.Details,
			entry.IPAddress,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b, nil
}

// Helper to generate PDF from HTML template
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	// Try path relative to project root (Prod)
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		// Try path relative to package (Test)
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}
