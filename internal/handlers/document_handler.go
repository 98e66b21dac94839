package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/doclave/doclave-api/internal/middleware"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/services"
)

type DocumentHandler struct {
	documentService  *services.DocumentService
	signatureService *services.SignatureService
	auditService     *services.AuditService
	reportService    *services.ReportService
}

func NewDocumentHandler(
	documentService *services.DocumentService,
	signatureService *services.SignatureService,
	auditService *services.AuditService,
	reportService *services.ReportService,
) *DocumentHandler {
	return &DocumentHandler{
		documentService:  documentService,
		signatureService: signatureService,
		auditService:     auditService,
		reportService:    reportService,
	}
}

// @Summary List Documents
// @Description Get a paginated list of documents. Regular users see their own; admins and compliance officers see all.
// @Tags Documents
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status"
// @Param template_id query int false "Filter by template"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) Index(c *gin.Context) {
	query := &repository.DocumentQuery{ListQuery: parseListQuery(c)}
	query.Status = c.Query("status")
	if templateID, err := strconv.ParseUint(c.Query("template_id"), 10, 32); err == nil {
		query.TemplateID = uint(templateID)
	}
	query.CreatedByID = middleware.GetUserID(c)
	query.IsElevated = middleware.IsElevated(c)

	documents, total, err := h.documentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, document := range documents {
		responses = append(responses, document.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"documents":  responses,
		"pagination": pagination(query.ListQuery, total),
	})
}

// @Summary Get Document
// @Description Get a document with creator, template and signatures
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 200 {object} models.DocumentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id} [get]
func (h *DocumentHandler) Show(c *gin.Context) {
	document, err := h.documentService.FindByIDWithDetails(c.Request.Context(), pathID(c, "document_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": document.ToResponse()})
}

// @Summary Create Document
// @Description Create a draft document, optionally instantiated from a template
// @Tags Documents
// @Accept json
// @Produce json
// @Param request body services.CreateDocumentInput true "Document Data"
// @Success 201 {object} models.DocumentResponse
// @Failure 400,422 {object} map[string]string
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	var input services.CreateDocumentInput
	if err := BindNestedOrFlat(c, "document", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	document, err := h.documentService.Create(c.Request.Context(), actionContext(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": document.ToResponse()})
}

// UpdateDocumentRequest is the body for PATCH document. Content changes create
// a new version; a status value is validated against the lifecycle state
// machine server-side.
type UpdateDocumentRequest struct {
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

// @Summary Update Document
// @Description Update document content (drafts only, versioned) and/or request a status transition
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Param request body UpdateDocumentRequest true "Document Data"
// @Success 200 {object} models.DocumentResponse
// @Failure 400,404,422 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	id := pathID(c, "document_id")

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content == nil && req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	actor := actionContext(c)

	document, err := h.documentService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Content != nil {
		document, err = h.documentService.UpdateContent(c.Request.Context(), actor, id, *req.Content)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	if req.Status != nil && *req.Status != document.Status {
		document, err = h.documentService.Transition(c.Request.Context(), actor, id, *req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"document": document.ToResponse()})
}

// @Summary Submit Document
// @Description Submit a draft document for approval
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 200 {object} models.DocumentResponse
// @Failure 404,422 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/submit [post]
func (h *DocumentHandler) Submit(c *gin.Context) {
	document, err := h.documentService.Submit(c.Request.Context(), actionContext(c), pathID(c, "document_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": document.ToResponse(), "message": "Document submitted for approval"})
}

// @Summary Approve Document
// @Description Approve a pending document (admin or compliance officer)
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 200 {object} models.DocumentResponse
// @Failure 404,422 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/approve [post]
func (h *DocumentHandler) Approve(c *gin.Context) {
	document, err := h.documentService.Approve(c.Request.Context(), actionContext(c), pathID(c, "document_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": document.ToResponse(), "message": "Document approved"})
}

// @Summary Return Document
// @Description Return a pending document to draft for revision (admin or compliance officer)
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 200 {object} models.DocumentResponse
// @Failure 404,422 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/return [post]
func (h *DocumentHandler) Return(c *gin.Context) {
	document, err := h.documentService.ReturnToDraft(c.Request.Context(), actionContext(c), pathID(c, "document_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": document.ToResponse(), "message": "Document returned to draft"})
}

// @Summary Archive Document
// @Description Archive an active or expired document
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 200 {object} models.DocumentResponse
// @Failure 404,422 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/archive [post]
func (h *DocumentHandler) Archive(c *gin.Context) {
	document, err := h.documentService.Archive(c.Request.Context(), actionContext(c), pathID(c, "document_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": document.ToResponse(), "message": "Document archived"})
}

// @Summary Document Versions
// @Description Get the immutable version history of a document
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/versions [get]
func (h *DocumentHandler) Versions(c *gin.Context) {
	versions, err := h.documentService.Versions(c.Request.Context(), pathID(c, "document_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, version := range versions {
		responses = append(responses, version.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"versions": responses})
}

// @Summary Document Audit Trail
// @Description Get the complete audit trail of a document in chronological order
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/audit [get]
func (h *DocumentHandler) AuditTrail(c *gin.Context) {
	id := pathID(c, "document_id")
	if _, err := h.documentService.FindByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.auditService.ListForDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range entries {
		responses = append(responses, entries[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"audit_trail": responses})
}

// @Summary Sign Document
// @Description Record an electronic signature on a document. Each user signs a document at most once.
// @Tags Signatures
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Param request body services.SignInput true "Signature Payload"
// @Success 201 {object} models.SignatureResponse
// @Failure 404,409,422 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/signatures [post]
func (h *DocumentHandler) Sign(c *gin.Context) {
	var input services.SignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature payload is required"})
		return
	}

	signature, err := h.signatureService.Sign(c.Request.Context(), actionContext(c), pathID(c, "document_id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"signature": signature.ToResponse()})
}

// @Summary List Signatures
// @Description Get all signatures on a document, oldest first
// @Tags Signatures
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/signatures [get]
func (h *DocumentHandler) Signatures(c *gin.Context) {
	signatures, err := h.signatureService.ListForDocument(c.Request.Context(), pathID(c, "document_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, signature := range signatures {
		responses = append(responses, signature.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"signatures": responses})
}

// @Summary Document PDF
// @Description Download the document rendered as PDF
// @Tags Documents
// @Produce application/pdf
// @Param document_id path int true "Document ID"
// @Success 200 {file} file "document.pdf"
// @Security BearerAuth
// @Router /documents/{document_id}/export_pdf [get]
func (h *DocumentHandler) ExportPDF(c *gin.Context) {
	id := pathID(c, "document_id")
	buf, err := h.reportService.GenerateDocumentPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=document_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Signature Certificate PDF
// @Description Download the signature certificate of a document
// @Tags Signatures
// @Produce application/pdf
// @Param document_id path int true "Document ID"
// @Success 200 {file} file "certificate.pdf"
// @Security BearerAuth
// @Router /documents/{document_id}/certificate_pdf [get]
func (h *DocumentHandler) CertificatePDF(c *gin.Context) {
	id := pathID(c, "document_id")
	buf, err := h.reportService.GenerateSignatureCertificate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=certificate_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Audit Trail CSV
// @Description Download the document audit trail as CSV
// @Tags Documents
// @Produce text/csv
// @Param document_id path int true "Document ID"
// @Success 200 {file} file "audit_trail.csv"
// @Security BearerAuth
// @Router /documents/{document_id}/audit_csv [get]
func (h *DocumentHandler) AuditCSV(c *gin.Context) {
	id := pathID(c, "document_id")
	buf, err := h.reportService.GenerateAuditTrailCSV(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=audit_trail_%d.csv", id))
	c.String(http.StatusOK, buf.String())
}
