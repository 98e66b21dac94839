package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/doclave/doclave-api/internal/middleware"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/services"
)

type DeadlineHandler struct {
	deadlineService *services.DeadlineService
}

func NewDeadlineHandler(deadlineService *services.DeadlineService) *DeadlineHandler {
	return &DeadlineHandler{deadlineService: deadlineService}
}

// @Summary List Deadlines
// @Description Get a paginated list of compliance deadlines. Overdue is computed from the due date at read time.
// @Tags Deadlines
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param assignee_id query int false "Filter by assignee"
// @Param document_id query int false "Filter by document"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /deadlines [get]
func (h *DeadlineHandler) Index(c *gin.Context) {
	query := &repository.DeadlineQuery{ListQuery: parseListQuery(c)}
	query.Status = c.Query("status")
	if assigneeID, err := strconv.ParseUint(c.Query("assignee_id"), 10, 32); err == nil {
		query.AssigneeID = uint(assigneeID)
	}
	if documentID, err := strconv.ParseUint(c.Query("document_id"), 10, 32); err == nil {
		query.DocumentID = uint(documentID)
	}
	if !middleware.IsElevated(c) {
		query.AssigneeID = middleware.GetUserID(c)
	}

	deadlines, total, err := h.deadlineService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, deadline := range deadlines {
		responses = append(responses, deadline.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"deadlines":  responses,
		"pagination": pagination(query.ListQuery, total),
	})
}

// @Summary Get Deadline
// @Description Get a single compliance deadline
// @Tags Deadlines
// @Accept json
// @Produce json
// @Param deadline_id path int true "Deadline ID"
// @Success 200 {object} models.DeadlineResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /deadlines/{deadline_id} [get]
func (h *DeadlineHandler) Show(c *gin.Context) {
	deadline, err := h.deadlineService.FindByID(c.Request.Context(), pathID(c, "deadline_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deadline": deadline.ToResponse()})
}

// @Summary Create Deadline
// @Description Create a compliance deadline, optionally linked to a document
// @Tags Deadlines
// @Accept json
// @Produce json
// @Param request body services.CreateDeadlineInput true "Deadline Data"
// @Success 201 {object} models.DeadlineResponse
// @Failure 400,404 {object} map[string]string
// @Security BearerAuth
// @Router /deadlines [post]
func (h *DeadlineHandler) Create(c *gin.Context) {
	var input services.CreateDeadlineInput
	if err := BindNestedOrFlat(c, "deadline", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Title == "" || input.Deadline.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and deadline are required"})
		return
	}

	deadline, err := h.deadlineService.Create(c.Request.Context(), actionContext(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"deadline": deadline.ToResponse()})
}

// @Summary Update Deadline
// @Description Update a compliance deadline. Setting status to completed records the completion time.
// @Tags Deadlines
// @Accept json
// @Produce json
// @Param deadline_id path int true "Deadline ID"
// @Param request body services.UpdateDeadlineInput true "Deadline Data"
// @Success 200 {object} models.DeadlineResponse
// @Failure 400,404,422 {object} map[string]string
// @Security BearerAuth
// @Router /deadlines/{deadline_id} [patch]
func (h *DeadlineHandler) Update(c *gin.Context) {
	var input services.UpdateDeadlineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deadline, err := h.deadlineService.Update(c.Request.Context(), actionContext(c), pathID(c, "deadline_id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deadline": deadline.ToResponse()})
}

// @Summary Delete Deadline
// @Description Delete a compliance deadline (admin or compliance officer)
// @Tags Deadlines
// @Accept json
// @Produce json
// @Param deadline_id path int true "Deadline ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /deadlines/{deadline_id} [delete]
func (h *DeadlineHandler) Delete(c *gin.Context) {
	if err := h.deadlineService.Delete(c.Request.Context(), pathID(c, "deadline_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deadline deleted"})
}
