package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	catalog "github.com/skillforge/skillforge-backend/internal/application"
	"github.com/skillforge/skillforge-backend/pkg/response"
	"github.com/skillforge/skillforge-backend/pkg/validation"
)

const maxThumbnailBytes = 5 << 20

// CatalogHandler exposes the catalog query service over HTTP.
type CatalogHandler struct {
	Svc    *catalog.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *catalog.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

// Only required-scalar presence is enforced here; level is free-form and
// title length is not policed. Deeper rules belong to the service layer.
type createCourseRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	ThumbnailURL string  `json:"thumbnail_url" binding:"omitempty,url"`
	Category     string  `json:"category"`
	Level        string  `json:"level"`
	Price        float64 `json:"price" binding:"gte=0"`
	Duration     string  `json:"duration"`
}

// listError distinguishes a persistence failure from a legitimately empty
// result: the former becomes 502, never an empty 200.
func (h *CatalogHandler) listError(c *gin.Context, err error, msg string) {
	h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(msg)
	response.Error(c, http.StatusBadGateway, "catalog temporarily unavailable", nil)
}

func (h *CatalogHandler) ListPublished(c *gin.Context) {
	courses, err := h.Svc.ListPublished(c.Request.Context())
	if err != nil {
		h.listError(c, err, "list published courses failed")
		return
	}
	response.Success(c, http.StatusOK, courses, "courses", map[string]any{"count": len(courses)})
}

func (h *CatalogHandler) ListByCategory(c *gin.Context) {
	category := c.Param("category")
	courses, err := h.Svc.ListByCategory(c.Request.Context(), category)
	if err != nil {
		h.listError(c, err, "list courses by category failed")
		return
	}
	response.Success(c, http.StatusOK, courses, "courses", map[string]any{"count": len(courses), "category": category})
}

func (h *CatalogHandler) ListTrending(c *gin.Context) {
	courses, err := h.Svc.ListTrending(c.Request.Context())
	if err != nil {
		h.listError(c, err, "list trending courses failed")
		return
	}
	response.Success(c, http.StatusOK, courses, "trending courses", map[string]any{"count": len(courses)})
}

func (h *CatalogHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	detail, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			response.Error(c, http.StatusNotFound, "course not found", nil)
			return
		}
		h.listError(c, err, "get course failed")
		return
	}
	response.Success(c, http.StatusOK, detail, "course", nil)
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	instructorID := c.GetString("userID")
	id, err := h.Svc.Create(c.Request.Context(), catalog.CreateCourseInput{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		Category:     req.Category,
		Level:        req.Level,
		Price:        req.Price,
		Duration:     req.Duration,
	}, instructorID)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidCourseData) {
			response.Error(c, http.StatusBadRequest, "invalid course data", nil)
			return
		}
		h.listError(c, err, "create course failed")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": id}, "course created", nil)
}

func (h *CatalogHandler) Enroll(c *gin.Context) {
	courseID := c.Param("id")
	userID := c.GetString("userID")
	userEmail := c.GetString("userEmail")

	err := h.Svc.Enroll(c.Request.Context(), userID, courseID, userEmail)
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			response.Error(c, http.StatusNotFound, "course not found", nil)
			return
		}
		h.listError(c, err, "enroll failed")
		return
	}
	// Repeat enrollments land here too; the caller cannot tell them apart.
	response.Success(c, http.StatusOK, gin.H{"enrolled": true, "course_id": courseID}, "enrolled", nil)
}

func (h *CatalogHandler) ListForUser(c *gin.Context) {
	userID := c.GetString("userID")
	courses, err := h.Svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.listError(c, err, "list user courses failed")
		return
	}
	response.Success(c, http.StatusOK, courses, "enrolled courses", map[string]any{"count": len(courses)})
}

func (h *CatalogHandler) UploadThumbnail(c *gin.Context) {
	courseID := c.Param("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file", nil)
		return
	}
	if fileHeader.Size > maxThumbnailBytes {
		response.Error(c, http.StatusBadRequest, "file too large", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadThumbnail(c.Request.Context(), courseID, f, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			response.Error(c, http.StatusNotFound, "course not found", nil)
			return
		}
		h.listError(c, err, "thumbnail upload failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"thumbnail_url": url}, "thumbnail uploaded", nil)
}
