package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/doclave/doclave-api/internal/middleware"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Document     *DocumentHandler
	Deadline     *DeadlineHandler
	Template     *TemplateHandler
	UserFile     *UserFileHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
	Analytics    *AnalyticsHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Document:     NewDocumentHandler(svcs.Document, svcs.Signature, svcs.Audit, svcs.Report),
		Deadline:     NewDeadlineHandler(svcs.Deadline),
		Template:     NewTemplateHandler(svcs.Template),
		UserFile:     NewUserFileHandler(svcs.UserFile, svcs.Analytics),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
		Analytics:    NewAnalyticsHandler(svcs.Analytics, svcs.Export),
		Job:          NewJobHandler(svcs.Job),
	}
}

// actionContext captures the authenticated actor and request evidence for
// audit entries
func actionContext(c *gin.Context) services.ActionContext {
	return services.ActionContext{
		UserID:    middleware.GetUserID(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// parseListQuery reads the shared pagination and search parameters
func parseListQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	return query
}

func pathID(c *gin.Context, name string) uint {
	id, _ := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id)
}

func pagination(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": (total + int64(query.Limit()) - 1) / int64(query.Limit()),
	}
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNotEditable),
		errors.Is(err, services.ErrNotSignable),
		errors.Is(err, services.ErrTemplateInactive),
		errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadySigned),
		errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrInvalidContentType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
