package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/pkg/logger"
)

const (
	analyticsCacheTTL = 15 * time.Minute

	cacheKeyDashboard  = "dashboard_stats"
	cacheKeyOverview   = "analytics_overview"
	cacheKeyCategories = "file_categories"
)

// AnalyticsService computes dashboard and reporting aggregates. Results are
// cached in the database with a short TTL; a scheduled job refreshes them so
// dashboard requests rarely pay the aggregation cost.
type AnalyticsService struct {
	repo             repository.AnalyticsRepository
	documentRepo     repository.DocumentRepository
	signatureRepo    repository.SignatureRepository
	deadlineRepo     repository.DeadlineRepository
	auditRepo        repository.AuditRepository
	userDocumentRepo repository.UserDocumentRepository
}

func NewAnalyticsService(
	repo repository.AnalyticsRepository,
	documentRepo repository.DocumentRepository,
	signatureRepo repository.SignatureRepository,
	deadlineRepo repository.DeadlineRepository,
	auditRepo repository.AuditRepository,
	userDocumentRepo repository.UserDocumentRepository,
) *AnalyticsService {
	return &AnalyticsService{
		repo:             repo,
		documentRepo:     documentRepo,
		signatureRepo:    signatureRepo,
		deadlineRepo:     deadlineRepo,
		auditRepo:        auditRepo,
		userDocumentRepo: userDocumentRepo,
	}
}

// DashboardStats returns the dashboard summary, from cache when fresh
func (s *AnalyticsService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if cached, err := s.repo.GetCache(ctx, cacheKeyDashboard); err == nil {
		var stats models.DashboardStats
		if err := json.Unmarshal(cached.Data, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.computeDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCache(ctx, cacheKeyDashboard, stats, analyticsCacheTTL); err != nil {
		logger.Warn("Failed to cache dashboard stats", "error", err)
	}
	return stats, nil
}

func (s *AnalyticsService) computeDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	byStatus, err := s.documentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	signatures, err := s.signatureRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	openDeadlines, err := s.deadlineRepo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	overdue, err := s.deadlineRepo.CountOverdueByDate(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	recent, err := s.auditRepo.FindRecent(ctx, 10)
	if err != nil {
		return nil, err
	}
	activity := make([]models.AuditEntryResponse, 0, len(recent))
	for i := range recent {
		activity = append(activity, recent[i].ToResponse())
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return &models.DashboardStats{
		TotalDocuments:    total,
		DraftDocuments:    byStatus[models.DocumentStatusDraft],
		PendingApproval:   byStatus[models.DocumentStatusPendingApproval],
		ActiveDocuments:   byStatus[models.DocumentStatusActive],
		ExpiredDocuments:  byStatus[models.DocumentStatusExpired],
		ArchivedDocuments: byStatus[models.DocumentStatusArchived],
		TotalSignatures:   signatures,
		OpenDeadlines:     openDeadlines,
		OverdueDeadlines:  overdue,
		RecentActivity:    activity,
	}, nil
}

// Overview returns document statistics and trend data, from cache when fresh
func (s *AnalyticsService) Overview(ctx context.Context) (*models.AnalyticsOverview, error) {
	if cached, err := s.repo.GetCache(ctx, cacheKeyOverview); err == nil {
		var overview models.AnalyticsOverview
		if err := json.Unmarshal(cached.Data, &overview); err == nil {
			return &overview, nil
		}
	}

	overview, err := s.computeOverview(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCache(ctx, cacheKeyOverview, overview, analyticsCacheTTL); err != nil {
		logger.Warn("Failed to cache analytics overview", "error", err)
	}
	return overview, nil
}

func (s *AnalyticsService) computeOverview(ctx context.Context) (*models.AnalyticsOverview, error) {
	byStatus, err := s.documentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	breakdown := make([]models.StatusBucket, 0, len(byStatus))
	for _, status := range []string{
		models.DocumentStatusDraft,
		models.DocumentStatusPendingApproval,
		models.DocumentStatusActive,
		models.DocumentStatusExpired,
		models.DocumentStatusArchived,
	} {
		count := byStatus[status]
		var pct float64
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		breakdown = append(breakdown, models.StatusBucket{
			Status:     status,
			Count:      count,
			Percentage: pct,
		})
	}

	trend, err := s.documentRepo.CountCreatedSince(ctx, monthStart(time.Now()).AddDate(0, -5, 0))
	if err != nil {
		return nil, err
	}

	completionRate, err := s.deadlineRepo.CompletionRate(ctx)
	if err != nil {
		return nil, err
	}

	signaturesTotal, err := s.signatureRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	signaturesThisMonth, err := s.signatureRepo.CountSince(ctx, monthStart(time.Now()))
	if err != nil {
		return nil, err
	}

	return &models.AnalyticsOverview{
		TotalDocuments:         total,
		StatusBreakdown:        breakdown,
		CreationTrend:          trend,
		DeadlineCompletionRate: completionRate,
		SignaturesTotal:        signaturesTotal,
		SignaturesThisMonth:    signaturesThisMonth,
	}, nil
}

// FileCategories returns user-file aggregates per category
func (s *AnalyticsService) FileCategories(ctx context.Context) ([]models.CategoryBucket, error) {
	if cached, err := s.repo.GetCache(ctx, cacheKeyCategories); err == nil {
		var buckets []models.CategoryBucket
		if err := json.Unmarshal(cached.Data, &buckets); err == nil {
			return buckets, nil
		}
	}

	buckets, err := s.userDocumentRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCache(ctx, cacheKeyCategories, buckets, analyticsCacheTTL); err != nil {
		logger.Warn("Failed to cache file categories", "error", err)
	}
	return buckets, nil
}

// RefreshCache recomputes every cached aggregate. Runs on the scheduler.
func (s *AnalyticsService) RefreshCache(ctx context.Context) error {
	stats, err := s.computeDashboardStats(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.SetCache(ctx, cacheKeyDashboard, stats, analyticsCacheTTL); err != nil {
		return err
	}

	overview, err := s.computeOverview(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.SetCache(ctx, cacheKeyOverview, overview, analyticsCacheTTL); err != nil {
		return err
	}

	buckets, err := s.userDocumentRepo.CountByCategory(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.SetCache(ctx, cacheKeyCategories, buckets, analyticsCacheTTL); err != nil {
		return err
	}

	return s.repo.CleanExpiredCache(ctx)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
