package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doclave/doclave-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Entries
// @Description Get a paginated list of audit entries across the system (admin or compliance officer)
// @Tags Audit
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param action query string false "Filter by action"
// @Param user_id query int false "Filter by acting user"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	query.Filters["action"] = c.Query("action")
	query.Filters["user_id"] = c.Query("user_id")

	entries, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range entries {
		responses = append(responses, entries[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"audits":     responses,
		"pagination": pagination(query, total),
	})
}
