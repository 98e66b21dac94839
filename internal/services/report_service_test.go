package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclave/doclave-api/internal/models"
)

func TestReportService_GenerateSignatureCertificate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author@doclave.test", models.RoleUser)
	signer := env.createUser(t, "signer@doclave.test", models.RoleUser)

	doc := env.createPendingDocument(t, author)
	_, err := env.signatures.Sign(ctx, env.actor(signer), doc.ID, SignInput{Payload: "Signed"})
	require.NoError(t, err)

	reports := NewReportService(env.repos.Document, env.repos.Audit)
	buf, err := reports.GenerateSignatureCertificate(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))

	_, err = reports.GenerateSignatureCertificate(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportService_GenerateAuditTrailCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author@doclave.test", models.RoleUser)

	doc, err := env.documents.Create(ctx, env.actor(author), CreateDocumentInput{Title: "Audited Policy"})
	require.NoError(t, err)
	_, err = env.documents.Submit(ctx, env.actor(author), doc.ID)
	require.NoError(t, err)

	reports := NewReportService(env.repos.Document, env.repos.Audit)
	buf, err := reports.GenerateAuditTrailCSV(ctx, doc.ID)
	require.NoError(t, err)

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ID", "Timestamp", "User", "Action", "Details", "IP Address"}, records[0])
	assert.Equal(t, models.AuditDocumentCreated, records[1][3])
	assert.Equal(t, models.AuditDocumentSubmitted, records[2][3])

	_, err = reports.GenerateAuditTrailCSV(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportService_ExportCSV(t *testing.T) {
	overview := &models.AnalyticsOverview{
		TotalDocuments:         3,
		DeadlineCompletionRate: 50,
		SignaturesTotal:        2,
		StatusBreakdown: []models.StatusBucket{
			{Status: models.DocumentStatusDraft, Count: 1, Percentage: 33.33},
			{Status: models.DocumentStatusActive, Count: 2, Percentage: 66.67},
		},
		CreationTrend: []models.MonthlyTrendPoint{{Label: "2026-08", Count: 3}},
	}

	exports := NewExportService(nil)
	data, filename, err := exports.ExportCSV(context.Background(), overview)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "analytics_report_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	content := string(data)
	assert.Contains(t, content, "Total Documents,3")
	assert.Contains(t, content, "Deadline Completion Rate,50.00%")
	assert.Contains(t, content, "draft,1,33.33%")
	assert.Contains(t, content, "2026-08,3")
}

func TestExportService_ExportXLSX(t *testing.T) {
	overview := &models.AnalyticsOverview{TotalDocuments: 1}

	exports := NewExportService(nil)
	data, filename, err := exports.ExportXLSX(context.Background(), overview)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	// XLSX files are zip archives
	assert.Equal(t, "PK", string(data[:2]))
}

func TestExportService_ExportPDF(t *testing.T) {
	overview := &models.AnalyticsOverview{TotalDocuments: 1}

	exports := NewExportService(nil)
	data, filename, err := exports.ExportPDF(context.Background(), overview)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
