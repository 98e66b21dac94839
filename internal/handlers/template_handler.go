package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doclave/doclave-api/internal/services"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// @Summary List Templates
// @Description Get a paginated list of document templates
// @Tags Templates
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /templates [get]
func (h *TemplateHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	query.Filters["is_active"] = c.Query("is_active")

	templates, total, err := h.templateService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, template := range templates {
		responses = append(responses, template.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"templates":  responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Get Template
// @Description Get a template with its extracted variable names
// @Tags Templates
// @Accept json
// @Produce json
// @Param template_id path int true "Template ID"
// @Success 200 {object} models.TemplateResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /templates/{template_id} [get]
func (h *TemplateHandler) Show(c *gin.Context) {
	template, err := h.templateService.FindByID(c.Request.Context(), pathID(c, "template_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": template.ToResponse()})
}

// @Summary Create Template
// @Description Create a document template. Variable names are extracted from the content placeholders.
// @Tags Templates
// @Accept json
// @Produce json
// @Param request body services.CreateTemplateInput true "Template Data"
// @Success 201 {object} models.TemplateResponse
// @Failure 400,409 {object} map[string]string
// @Security BearerAuth
// @Router /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var input services.CreateTemplateInput
	if err := BindNestedOrFlat(c, "template", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name == "" || input.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and content are required"})
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), actionContext(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": template.ToResponse()})
}

// @Summary Update Template
// @Description Update a template. Changing the content re-extracts the variable names.
// @Tags Templates
// @Accept json
// @Produce json
// @Param template_id path int true "Template ID"
// @Param request body services.UpdateTemplateInput true "Template Data"
// @Success 200 {object} models.TemplateResponse
// @Failure 400,404,409 {object} map[string]string
// @Security BearerAuth
// @Router /templates/{template_id} [patch]
func (h *TemplateHandler) Update(c *gin.Context) {
	var input services.UpdateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), actionContext(c), pathID(c, "template_id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template.ToResponse()})
}

// @Summary Deactivate Template
// @Description Deactivate a template so it can no longer be used for new documents. Existing documents are unaffected.
// @Tags Templates
// @Accept json
// @Produce json
// @Param template_id path int true "Template ID"
// @Success 200 {object} models.TemplateResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /templates/{template_id}/deactivate [post]
func (h *TemplateHandler) Deactivate(c *gin.Context) {
	template, err := h.templateService.Deactivate(c.Request.Context(), actionContext(c), pathID(c, "template_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": template.ToResponse(), "message": "Template deactivated"})
}
