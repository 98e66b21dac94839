package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doclave/doclave-api/internal/services"
)

type AnalyticsHandler struct {
	analyticsSvc *services.AnalyticsService
	exportSvc    *services.ExportService
}

func NewAnalyticsHandler(analyticsSvc *services.AnalyticsService, exportSvc *services.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
		exportSvc:    exportSvc,
	}
}

// @Summary Dashboard Statistics
// @Description Returns counts by document status, open deadlines, overdue deadlines and recent activity
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsSvc.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Analytics Overview
// @Description Returns status distribution, monthly creation trend and deadline completion rate
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.AnalyticsOverview
// @Security BearerAuth
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsSvc.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary Refresh Analytics Cache
// @Description Recompute all cached analytics immediately (admin only)
// @Tags Analytics
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /analytics/refresh [post]
func (h *AnalyticsHandler) Refresh(c *gin.Context) {
	if err := h.analyticsSvc.RefreshCache(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Analytics cache refreshed"})
}

// @Summary Export Analytics Report
// @Description Download the analytics overview as CSV, XLSX or PDF
// @Tags Analytics
// @Produce application/octet-stream
// @Param format query string false "Export format: csv, xlsx or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	overview, err := h.analyticsSvc.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")

	var data []byte
	var fileName string
	var contentType string

	switch format {
	case "csv":
		data, fileName, err = h.exportSvc.ExportCSV(c.Request.Context(), overview)
		contentType = "text/csv"
	case "xlsx":
		data, fileName, err = h.exportSvc.ExportXLSX(c.Request.Context(), overview)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, fileName, err = h.exportSvc.ExportPDF(c.Request.Context(), overview)
		contentType = "application/pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, expected csv, xlsx or pdf"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	c.Data(http.StatusOK, contentType, data)
}
