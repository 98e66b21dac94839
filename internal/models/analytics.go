package models

import (
	"encoding/json"
	"time"
)

// AnalyticsCache represents a cached analytics result
type AnalyticsCache struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CacheKey  string          `gorm:"not null;uniqueIndex" json:"cache_key"`
	Data      json.RawMessage `gorm:"type:jsonb;not null" json:"data"`
	ExpiresAt time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for AnalyticsCache
func (AnalyticsCache) TableName() string {
	return "analytics_cache"
}

// DashboardStats is the summary block shown on the dashboard
type DashboardStats struct {
	TotalDocuments    int64                `json:"total_documents"`
	DraftDocuments    int64                `json:"draft_documents"`
	PendingApproval   int64                `json:"pending_approval"`
	ActiveDocuments   int64                `json:"active_documents"`
	ExpiredDocuments  int64                `json:"expired_documents"`
	ArchivedDocuments int64                `json:"archived_documents"`
	TotalSignatures   int64                `json:"total_signatures"`
	OpenDeadlines     int64                `json:"open_deadlines"`
	OverdueDeadlines  int64                `json:"overdue_deadlines"`
	RecentActivity    []AuditEntryResponse `json:"recent_activity"`
}

// AnalyticsOverview represents document statistics and trend data
type AnalyticsOverview struct {
	TotalDocuments         int64                  `json:"total_documents"`
	StatusBreakdown        []StatusBucket         `json:"status_breakdown"`
	CreationTrend          []MonthlyTrendPoint    `json:"creation_trend"`
	DeadlineCompletionRate float64                `json:"deadline_completion_rate"`
	SignaturesTotal        int64                  `json:"signatures_total"`
	SignaturesThisMonth    int64                  `json:"signatures_this_month"`
}

// StatusBucket is one slice of the document status breakdown
type StatusBucket struct {
	Status     string  `json:"status"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyTrendPoint is one month's bucket in the creation trend chart
type MonthlyTrendPoint struct {
	Label string `json:"label"` // e.g. "2026-03"
	Count int64  `json:"count"`
}

// CategoryBucket aggregates user files by category
type CategoryBucket struct {
	Category   string `json:"category"`
	Count      int64  `json:"count"`
	TotalBytes int64  `json:"total_bytes"`
}
