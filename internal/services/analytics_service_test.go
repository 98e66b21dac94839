package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclave/doclave-api/internal/models"
)

func TestAnalyticsService_DashboardStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author@doclave.test", models.RoleUser)
	officer := env.createUser(t, "officer@doclave.test", models.RoleComplianceOfficer)
	signer := env.createUser(t, "signer@doclave.test", models.RoleUser)

	_, err := env.documents.Create(ctx, env.actor(author), CreateDocumentInput{Title: "Draft Policy"})
	require.NoError(t, err)

	active, err := env.documents.Create(ctx, env.actor(author), CreateDocumentInput{Title: "Active Policy"})
	require.NoError(t, err)
	_, err = env.documents.Submit(ctx, env.actor(author), active.ID)
	require.NoError(t, err)
	_, err = env.documents.Approve(ctx, env.actor(officer), active.ID)
	require.NoError(t, err)

	_, err = env.signatures.Sign(ctx, env.actor(signer), active.ID, SignInput{Payload: "Signed"})
	require.NoError(t, err)

	_, err = env.deadlines.Create(ctx, env.actor(officer), CreateDeadlineInput{
		Title:    "Open review",
		Deadline: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	_, err = env.deadlines.Create(ctx, env.actor(officer), CreateDeadlineInput{
		Title:    "Missed review",
		Deadline: time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	stats, err := env.analytics.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalDocuments)
	assert.Equal(t, int64(1), stats.DraftDocuments)
	assert.Equal(t, int64(1), stats.ActiveDocuments)
	assert.Equal(t, int64(1), stats.TotalSignatures)
	assert.Equal(t, int64(2), stats.OpenDeadlines)
	assert.Equal(t, int64(1), stats.OverdueDeadlines)
	assert.NotEmpty(t, stats.RecentActivity)
}

func TestAnalyticsService_DashboardStatsServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author@doclave.test", models.RoleUser)

	_, err := env.documents.Create(ctx, env.actor(author), CreateDocumentInput{Title: "First"})
	require.NoError(t, err)

	stats, err := env.analytics.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDocuments)

	// New writes are invisible until the cache entry expires or is refreshed
	_, err = env.documents.Create(ctx, env.actor(author), CreateDocumentInput{Title: "Second"})
	require.NoError(t, err)

	stats, err = env.analytics.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDocuments)

	require.NoError(t, env.analytics.RefreshCache(ctx))

	stats, err = env.analytics.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalDocuments)
}

func TestAnalyticsService_Overview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author@doclave.test", models.RoleUser)
	officer := env.createUser(t, "officer@doclave.test", models.RoleComplianceOfficer)

	_, err := env.documents.Create(ctx, env.actor(author), CreateDocumentInput{Title: "Policy"})
	require.NoError(t, err)

	done, err := env.deadlines.Create(ctx, env.actor(officer), CreateDeadlineInput{
		Title:    "Done",
		Deadline: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	completed := models.DeadlineStatusCompleted
	_, err = env.deadlines.Update(ctx, env.actor(officer), done.ID, UpdateDeadlineInput{Status: &completed})
	require.NoError(t, err)

	_, err = env.deadlines.Create(ctx, env.actor(officer), CreateDeadlineInput{
		Title:    "Pending",
		Deadline: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	overview, err := env.analytics.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.TotalDocuments)
	assert.InDelta(t, 50.0, overview.DeadlineCompletionRate, 0.001)

	// One bucket per month over the last six months, current month included
	require.Len(t, overview.CreationTrend, 6)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), overview.CreationTrend[5].Label)
	assert.Equal(t, int64(1), overview.CreationTrend[5].Count)
}

func TestAnalyticsService_FileCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	for _, upload := range []UploadInput{
		pdfUpload("a.pdf", "aaaa", "tax"),
		pdfUpload("b.pdf", "bb", "tax"),
		pdfUpload("c.pdf", "c", "identity"),
	} {
		_, err := env.userFiles.Upload(ctx, env.actor(user), upload)
		require.NoError(t, err)
	}

	buckets, err := env.analytics.FileCategories(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "identity", buckets[0].Category)
	assert.Equal(t, int64(1), buckets[0].Count)
	assert.Equal(t, "tax", buckets[1].Category)
	assert.Equal(t, int64(2), buckets[1].Count)
	assert.Equal(t, int64(6), buckets[1].TotalBytes)
}
