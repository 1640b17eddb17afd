package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobtrack/jobtrack/internal/documents"
	"github.com/jobtrack/jobtrack/pkg/middleware"
)

// 25 MB, matching the storage bucket policy.
const maxUploadBytes = 25 << 20

// DocumentsHandler exposes upload, listing with resolved URLs, and delete.
type DocumentsHandler struct {
	svc *documents.Service
}

func NewDocumentsHandler(svc *documents.Service) *DocumentsHandler {
	return &DocumentsHandler{svc: svc}
}

func (h *DocumentsHandler) Register(rg *gin.RouterGroup) {
	d := rg.Group("/documents")
	d.GET("", h.List)
	d.POST("", h.Upload)
	d.DELETE("/:id", h.Delete)
}

func (h *DocumentsHandler) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentsHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()

	doc, err := h.svc.Upload(c.Request.Context(), middleware.Subject(c), header.Filename, f, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.Subject(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
