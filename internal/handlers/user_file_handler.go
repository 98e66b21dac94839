package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/doclave/doclave-api/internal/middleware"
	"github.com/doclave/doclave-api/internal/services"
)

type UserFileHandler struct {
	userFileService  *services.UserFileService
	analyticsService *services.AnalyticsService
}

func NewUserFileHandler(userFileService *services.UserFileService, analyticsService *services.AnalyticsService) *UserFileHandler {
	return &UserFileHandler{
		userFileService:  userFileService,
		analyticsService: analyticsService,
	}
}

// @Summary List Files
// @Description Get a paginated list of the current user's files
// @Tags Files
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by file name"
// @Param category query string false "Filter by category"
// @Param starred query bool false "Only starred files"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /user-documents [get]
func (h *UserFileHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	query.Filters["category"] = c.Query("category")
	query.Filters["starred"] = c.Query("starred")

	files, total, err := h.userFileService.List(c.Request.Context(), middleware.GetUserID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, file := range files {
		responses = append(responses, file.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"files":      responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Upload File
// @Description Upload a single file as multipart form data
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param category formData string false "File category"
// @Success 201 {object} models.UserDocumentResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /user-documents/upload [post]
func (h *UserFileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading uploaded file"})
		return
	}
	defer file.Close()

	doc, err := h.userFileService.Upload(c.Request.Context(), actionContext(c), services.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Category:    c.PostForm("category"),
		Reader:      file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": doc.ToResponse()})
}

// @Summary Bulk Upload Files
// @Description Upload several files in one request. Each file succeeds or fails independently.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to upload"
// @Param category formData string false "Category applied to all files"
// @Success 200 {object} models.BulkUploadSummary
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /user-documents/bulk_upload [post]
func (h *UserFileHandler) BulkUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing form data: " + err.Error()})
		return
	}

	category := c.PostForm("category")

	var inputs []services.UploadInput
	var opened []io.Closer
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for key, fileHeaders := range form.File {
		if !strings.HasPrefix(key, "files") {
			continue
		}
		for _, fileHeader := range fileHeaders {
			file, err := fileHeader.Open()
			if err != nil {
				continue
			}
			opened = append(opened, file)
			inputs = append(inputs, services.UploadInput{
				FileName:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Size:        fileHeader.Size,
				Category:    category,
				Reader:      file,
			})
		}
	}

	if len(inputs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	summary := h.userFileService.BulkUpload(c.Request.Context(), actionContext(c), inputs)
	c.JSON(http.StatusOK, summary)
}

// @Summary Download File
// @Description Stream the file content. Owners always; admins and compliance officers may download any file.
// @Tags Files
// @Produce application/octet-stream
// @Param file_id path int true "File ID"
// @Success 200 {file} file
// @Failure 403,404 {object} map[string]string
// @Security BearerAuth
// @Router /user-documents/{file_id}/download [get]
func (h *UserFileHandler) Download(c *gin.Context) {
	doc, reader, err := h.userFileService.Download(
		c.Request.Context(),
		middleware.GetUserID(c),
		pathID(c, "file_id"),
		middleware.IsElevated(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", doc.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.DataFromReader(http.StatusOK, doc.Size, doc.ContentType, reader, nil)
}

// StarRequest toggles the starred flag on a file
type StarRequest struct {
	Starred bool `json:"starred"`
}

// @Summary Star File
// @Description Mark or unmark a file as starred
// @Tags Files
// @Accept json
// @Produce json
// @Param file_id path int true "File ID"
// @Param request body StarRequest true "Starred flag"
// @Success 200 {object} models.UserDocumentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /user-documents/{file_id}/star [patch]
func (h *UserFileHandler) Star(c *gin.Context) {
	var req StarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.userFileService.SetStarred(c.Request.Context(), middleware.GetUserID(c), pathID(c, "file_id"), req.Starred)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": doc.ToResponse()})
}

// CategoryRequest reassigns a file's category
type CategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// @Summary Set File Category
// @Description Move a file to a different category
// @Tags Files
// @Accept json
// @Produce json
// @Param file_id path int true "File ID"
// @Param request body CategoryRequest true "Category"
// @Success 200 {object} models.UserDocumentResponse
// @Failure 400,404 {object} map[string]string
// @Security BearerAuth
// @Router /user-documents/{file_id}/category [patch]
func (h *UserFileHandler) SetCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		return
	}

	doc, err := h.userFileService.SetCategory(c.Request.Context(), middleware.GetUserID(c), pathID(c, "file_id"), req.Category)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": doc.ToResponse()})
}

// @Summary Delete File
// @Description Soft delete a file record and remove the stored object
// @Tags Files
// @Accept json
// @Produce json
// @Param file_id path int true "File ID"
// @Success 200 {object} map[string]string
// @Failure 403,404 {object} map[string]string
// @Security BearerAuth
// @Router /user-documents/{file_id} [delete]
func (h *UserFileHandler) Delete(c *gin.Context) {
	if err := h.userFileService.Delete(c.Request.Context(), actionContext(c), pathID(c, "file_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}

// @Summary File Categories
// @Description Get aggregate counts and sizes per file category
// @Tags Files
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /analytics/categories [get]
func (h *UserFileHandler) Categories(c *gin.Context) {
	buckets, err := h.analyticsService.FileCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": buckets})
}
